package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/de-tools/policy-report/pkg/models/domain"
	"github.com/de-tools/policy-report/pkg/services/downloads"
	"github.com/rs/zerolog"
)

// SaveDownloads builds each requested artifact from report and stores it in sink.
func SaveDownloads(
	ctx context.Context,
	sink downloads.Sink,
	report *domain.Report,
	kinds []downloads.Kind,
	out io.Writer,
) error {
	logger := zerolog.Ctx(ctx)

	for _, kind := range kinds {
		artifact, err := downloads.Build(report, kind)
		if err != nil {
			return fmt.Errorf("failed to build %s download: %w", kind, err)
		}

		if kind == downloads.KindExcel {
			preview, err := downloads.PreviewWorkbook(artifact.Data, 1)
			if err != nil {
				logger.Warn().Err(err).Msg("excel payload does not open as a workbook")
			} else {
				logger.Debug().Int("sheets", len(preview.Sheets)).Msg("excel payload verified")
			}
		}

		location, err := sink.Save(ctx, artifact)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "📥 %s saved to %s\n", artifact.Filename, location)
	}
	return nil
}
