package sitecdkutil

import (
	"fmt"

	"github.com/aws/constructs-go/constructs/v10"
	"github.com/iancoleman/strcase"
)

// Casing selects the output format of ResourceName.
type Casing int

const (
	CasingCamel Casing = iota
	CasingLowerCamel
	CasingKebab
	CasingScreamingSnake
)

// ResourceName returns "{qualifier}-{deployment}-{label}", or
// "{qualifier}-{label}" in the shared stack, in the given casing.
//
// With qualifier "devfyi", deployment "Prod" and label "redirect-map":
//   - CasingCamel:          "DevfyiProdRedirectMap"
//   - CasingLowerCamel:     "devfyiProdRedirectMap"
//   - CasingKebab:          "devfyi-prod-redirect-map"
//   - CasingScreamingSnake: "DEVFYI_PROD_REDIRECT_MAP"
func ResourceName(scope constructs.Construct, label string, casing Casing) string {
	base := fmt.Sprintf("%s-%s", Qualifier(scope), label)
	if dident := DeploymentIdent(scope); dident != "" {
		base = fmt.Sprintf("%s-%s-%s", Qualifier(scope), dident, label)
	}
	return applyCasing(base, casing)
}

func applyCasing(s string, casing Casing) string {
	switch casing {
	case CasingLowerCamel:
		return strcase.ToLowerCamel(s)
	case CasingKebab:
		return strcase.ToKebab(s)
	case CasingScreamingSnake:
		return strcase.ToScreamingSnake(s)
	default:
		return strcase.ToCamel(s)
	}
}
