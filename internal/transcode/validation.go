package transcode

import (
	"context"
	"fmt"
	"os"

	"hopper/internal/media/ffprobe"
	"hopper/internal/services"
)

// ValidateOutput confirms the tool produced a well-formed file: present,
// non-empty, and carrying at least one video stream. Any miss is a failure
// for the work item, not a retry.
func ValidateOutput(ctx context.Context, ffprobeBinary, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcode", "validate output", "output file missing", err)
	}
	if info.Size() == 0 {
		return services.Wrap(services.ErrValidation, "transcode", "validate output", "output file is empty", nil)
	}

	result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return services.Wrap(services.ErrValidation, "transcode", "validate output", "output not readable as media", err)
	}
	if result.VideoStreamCount() == 0 {
		return services.Wrap(services.ErrValidation, "transcode", "validate output",
			fmt.Sprintf("output has no video stream (%d streams total)", len(result.Streams)), nil)
	}
	return nil
}

// IsMedia reports whether ffprobe can read the file as media containing at
// least one stream. Non-media files are filed to the output directory
// untouched rather than transcoded.
func IsMedia(ctx context.Context, ffprobeBinary, path string) bool {
	result, err := ffprobe.Inspect(ctx, ffprobeBinary, path)
	if err != nil {
		return false
	}
	return len(result.Streams) > 0
}
