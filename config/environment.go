package config

import "os"

type Environment struct {
	Name          string
	IsDevelopment bool
}

// CurrentEnvironment reads APP_ENV. An unset value counts as development,
// matching local runs without a deployment platform.
func CurrentEnvironment() Environment {
	name := os.Getenv("APP_ENV")
	if name == "" {
		if os.Getenv("RAILWAY_ENVIRONMENT_NAME") != "" {
			name = "production"
		} else {
			name = "development"
		}
	}

	return Environment{
		Name:          name,
		IsDevelopment: name == "development",
	}
}
