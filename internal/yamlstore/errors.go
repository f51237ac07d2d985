package yamlstore

import "errors"

var (
	ErrDecode = errors.New("failed to decode record file")
	ErrEncode = errors.New("failed to encode record")
)
