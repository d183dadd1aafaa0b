package application

import (
	"errors"
	"fmt"

	catalogports "github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
)

// ErrUpstream signals the catalog service could not be reached or answered garbage.
var ErrUpstream = errors.New("catalog service failure")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, catalogports.ErrNetwork) || errors.Is(err, catalogports.ErrDecode) {
		return fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	return err
}
