package styles

import "github.com/colonyops/toast/internal/core/toast"

// Tip: To find icons use https://github.com/loichyan/nerdfix

var (
	IconToastSuccess = "\uf00c" // nf-fa-check
	IconToastError   = "\uf00d" // nf-fa-times
	IconToastWarning = "\uf071" // nf-fa-warning
	IconToastInfo    = "\uf05a" // nf-fa-info_circle
	IconToastNeutral = "\uf0f3" // nf-fa-bell
)

// VariantIcon returns the icon drawn in front of a toast title. Unknown
// variants use the neutral icon.
func VariantIcon(v toast.Variant) string {
	switch v {
	case toast.VariantSuccess:
		return IconToastSuccess
	case toast.VariantError:
		return IconToastError
	case toast.VariantWarning:
		return IconToastWarning
	case toast.VariantInfo:
		return IconToastInfo
	default:
		return IconToastNeutral
	}
}
