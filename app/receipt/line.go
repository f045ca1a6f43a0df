package receipt

// Role tags a composed line with its semantic meaning so renderers can pick
// font size and emphasis without re-parsing the text.
type Role string

const (
	RoleHeader     Role = "header"      // order id line
	RoleField      Role = "field"       // label/value rows
	RoleSeparator  Role = "separator"   // --- / === rules
	RoleSection    Role = "section"     // centered section captions
	RoleTableHead  Role = "table-head"  // item table header row
	RoleItem       Role = "item"        // item table rows
	RoleItemDetail Role = "item-detail" // wrapped name continuations, descriptions, remarks
	RoleFee        Role = "fee"         // subtotal / tax / fee / tip / discount rows
	RoleTotal      Role = "total"       // final TOTAL row
	RoleNote       Role = "note"        // order notes block
	RoleBlank      Role = "blank"       // vertical spacing
)

// Line is the unit of the composer's output and the contract consumed by
// every render backend.
type Line struct {
	Role Role
	Text string
}

// Style is the shared role -> presentation mapping. Both render backends use
// it so the same receipt looks the same regardless of engine.
type Style struct {
	FontSize int // points
	Bold     bool
}

// StyleFor returns the presentation for a line role under the given layout.
func StyleFor(role Role, p Parameters) Style {
	switch role {
	case RoleHeader:
		return Style{FontSize: p.TitleFont, Bold: true}
	case RoleTotal:
		return Style{FontSize: p.ItemFont, Bold: true}
	case RoleTableHead:
		return Style{FontSize: p.ItemFont, Bold: true}
	case RoleItem, RoleItemDetail:
		return Style{FontSize: p.ItemFont, Bold: false}
	default:
		return Style{FontSize: p.NormalFont, Bold: false}
	}
}
