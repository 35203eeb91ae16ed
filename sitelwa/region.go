package sitelwa

// Region selects the region an AWS client is configured for.
type Region interface {
	resolve(env Environment) string
}

type regionFunc func(env Environment) string

func (f regionFunc) resolve(env Environment) string { return f(env) }

// LocalRegion targets the region the function runs in (AWS_REGION).
func LocalRegion() Region {
	return regionFunc(func(env Environment) string { return env.awsRegion() })
}

// PrimaryRegion targets the region of the site stack (SITE_PRIMARY_REGION).
func PrimaryRegion() Region {
	return regionFunc(func(env Environment) string { return env.primaryRegion() })
}

// FixedRegion always targets region.
func FixedRegion(region string) Region {
	return regionFunc(func(Environment) string { return region })
}
