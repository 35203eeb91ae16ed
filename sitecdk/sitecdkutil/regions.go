package sitecdkutil

// RegionIdents maps AWS regions to the 4-character identifiers used in stack
// names.
var RegionIdents = map[string]string{
	"us-east-1":      "Use1",
	"us-east-2":      "Use2",
	"us-west-1":      "Usw1",
	"us-west-2":      "Usw2",
	"eu-west-1":      "Euw1",
	"eu-west-2":      "Euw2",
	"eu-central-1":   "Euc1",
	"eu-north-1":     "Eun1",
	"ap-northeast-1": "Apn1",
	"ap-southeast-1": "Ase1",
	"ap-southeast-2": "Ase2",
	"ca-central-1":   "Cac1",
	"sa-east-1":      "Sae1",
}

// RegionIdentFor returns the identifier of region. It panics for unknown
// regions.
func RegionIdentFor(region string) string {
	ident, ok := RegionIdents[region]
	if !ok {
		panic("unknown AWS region: " + region + ", add it to sitecdkutil.RegionIdents")
	}
	return ident
}

// IsKnownRegion reports whether region has an identifier.
func IsKnownRegion(region string) bool {
	_, ok := RegionIdents[region]
	return ok
}
