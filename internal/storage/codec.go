package storage

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/Veraticus/mood2movie/internal/model"
)

// encodeLibrary renders the document with four-space indentation and sorted titles.
func encodeLibrary(library model.Library) ([]byte, error) {
	if library == nil {
		library = model.Library{}
	}
	data, err := json.MarshalIndent(library, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode library: %w", err)
	}
	return data, nil
}

// decodeLibrary parses a stored document and rejects records Save would refuse.
func decodeLibrary(data []byte) (model.Library, error) {
	library := model.Library{}
	if err := json.Unmarshal(data, &library); err != nil {
		return nil, fmt.Errorf("failed to decode library: %w", err)
	}
	if library == nil {
		library = model.Library{}
	}
	if err := validateLibrary(library); err != nil {
		return nil, err
	}
	return library, nil
}
