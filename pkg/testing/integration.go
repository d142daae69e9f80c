package testing

import "os"

// IntegrationEnv enables tests that start containers.
const IntegrationEnv = "GRADEBOOK_INTEGRATION"

func IntegrationEnabled() bool {
	return os.Getenv(IntegrationEnv) == "1"
}
