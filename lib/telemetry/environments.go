package telemetry

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"

	"scrappey-go/lib/configutil"
)

// SetupFromEnv searches up the filesystem from the cwd for telemetry.json5
// and sets up exporters according to it. ok is false when there is no such
// file, in which case telemetry stays a no-op.
func SetupFromEnv(ctx context.Context, serviceName string) (tel Telemetry, ok bool, err error) {
	c, path, err := configutil.ReadRecursively[Config]("telemetry.json5")
	if errors.Is(err, fs.ErrNotExist) {
		slog.DebugContext(ctx, "no telemetry config found, telemetry disabled")
		return Telemetry{}, false, nil
	}
	if err != nil {
		return Telemetry{}, false, err
	}
	slog.DebugContext(ctx, "telemetry config found", "path", path)

	tel, err = Setup(ctx, serviceName, c)
	if err != nil {
		return Telemetry{}, false, err
	}
	return tel, true, nil
}
