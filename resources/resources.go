package resources

import (
	_ "embed"
)

//go:embed resource-types.json
var ResourceTypesJson []byte
