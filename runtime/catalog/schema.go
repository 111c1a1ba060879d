package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/mod/semver"

	ferrors "github.com/amaury-medina-tass/spd-frontend-sub001/core/errors"
)

// SupportedMajor is the document schema major version this build reads.
const SupportedMajor = "v1"

// DefaultVersion is assumed for documents without schemaVersion.
const DefaultVersion = "1.0.0"

//go:embed schema.json
var schemaJSON []byte

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	url := "schema://catalog.json"
	if err := compiler.AddResource(url, bytes.NewReader(schemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(url)
})

// validateDocument checks a decoded JSON document against the catalog schema
func validateDocument(doc interface{}) error {
	schema, err := compileSchema()
	if err != nil {
		return ferrors.Wrap(ferrors.ErrCatalogSchema, "catalog schema does not compile", err)
	}
	if err := schema.Validate(doc); err != nil {
		return ferrors.Wrap(ferrors.ErrCatalogSchema, "catalog does not match schema", err)
	}
	return nil
}

// checkVersion accepts versions with or without the "v" prefix
func checkVersion(version string) (string, error) {
	if version == "" {
		version = DefaultVersion
	}

	v := version
	if v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", ferrors.Newf(ferrors.ErrCatalogVersion, "invalid schemaVersion %q", version).
			WithContext("version", version)
	}
	if major := semver.Major(v); major != SupportedMajor {
		return "", ferrors.New(ferrors.ErrCatalogVersion,
			fmt.Sprintf("unsupported schemaVersion %s (supported: %s.x)", version, SupportedMajor)).
			WithContext("version", version)
	}
	return semver.Canonical(v), nil
}
