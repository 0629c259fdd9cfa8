package config

import "strings"

type Cors struct{}

var _ CorsConfig = Cors{}

type AllowedOrigins map[string]struct{}
type nullValue = struct{}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

func (a AllowedOrigins) String() string {
	var origins []string
	for k := range a {
		origins = append(origins, k)
	}
	return strings.Join(origins, ", ")
}

// The proxy is meant to be callable from any browser origin, so the
// default is the wildcard. Override with CORS_ALLOWED_ORIGINS for a
// locked-down deployment.
var allowedOrigins = AllowedOrigins{"*": nullValue{}}

func (Cors) GetAllowedOrigins() AllowedOrigins {
	fromEnv := GetEnv("CORS_ALLOWED_ORIGINS", "")
	if fromEnv == "" {
		return allowedOrigins
	}
	origins := AllowedOrigins{}
	for _, o := range strings.Split(fromEnv, ",") {
		origins[strings.TrimSpace(o)] = nullValue{}
	}
	return origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, PUT, DELETE, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization"
}
