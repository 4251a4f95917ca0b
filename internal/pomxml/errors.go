package pomxml

import "errors"

var (
	// ErrManifestNotFound is returned when the manifest does not exist.
	ErrManifestNotFound = errors.New("manifest not found")
	// ErrMalformedManifest is returned for XML errors and declarations
	// lacking required coordinates.
	ErrMalformedManifest = errors.New("malformed manifest")
	// ErrRender is returned when the document can no longer be mapped onto
	// the source bytes.
	ErrRender = errors.New("cannot render manifest")
	// ErrPersist wraps IO failures while writing the manifest back.
	ErrPersist = errors.New("cannot write manifest")
)
