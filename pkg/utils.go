package pkg

import (
	"context"

	"github.com/rs/zerolog/log"

	"mifs/pkg/io"
)

func printDataErrors(ctx context.Context, errors []io.DataError) {
	for _, err := range errors {
		log.Ctx(ctx).Error().Msgf("Error parsing data at line %d: %s", err.Line, err.Error)
	}
}
