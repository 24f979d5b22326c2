package pms

import (
	"context"
	"io"
	"path/filepath"
	"strconv"

	"golang.org/x/time/rate"

	"github.com/np1/pms/internal/constants"
	"github.com/np1/pms/internal/utils"
)

// throttledReader limits the read rate of the underlying reader.
type throttledReader struct {
	ctx     context.Context //nolint:containedctx // The reader is used only within one download.
	reader  io.Reader
	limiter *rate.Limiter
}

// newThrottledReader wraps reader with a bytesPerSecond limit. A non-positive limit disables throttling.
func newThrottledReader(ctx context.Context, reader io.Reader, bytesPerSecond int64) io.Reader {
	if bytesPerSecond <= 0 {
		return reader
	}

	burst := int(min(bytesPerSecond, int64(maxThrottleBurst)))

	return &throttledReader{
		ctx:     ctx,
		reader:  reader,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSecond), burst),
	}
}

// maxThrottleBurst caps a single read so the limiter smooths large buffers.
const maxThrottleBurst = 64 * 1024

// Read implements io.Reader.
func (r *throttledReader) Read(p []byte) (int, error) {
	if len(p) > r.limiter.Burst() {
		p = p[:r.limiter.Burst()]
	}

	n, err := r.reader.Read(p)
	if n > 0 {
		if waitErr := r.limiter.WaitN(r.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}

	return n, err
}

// resetClaimedPaths forgets the paths taken by the previous batch.
func (s *ServiceImpl) resetClaimedPaths() {
	s.claimedPathsMutex.Lock()
	defer s.claimedPathsMutex.Unlock()

	clear(s.claimedPaths)
}

// claimTrackPath reserves the final path of one track in the current batch and returns
// the base filename it settled on. A name already taken by another track of the batch
// gets the track id appended, so two results with the same artist and title never
// share a file.
func (s *ServiceImpl) claimTrackPath(baseFilename, trackID string, format AudioFormat) (string, string) {
	s.claimedPathsMutex.Lock()
	defer s.claimedPathsMutex.Unlock()

	candidate := baseFilename

	for attempt := 1; ; attempt++ {
		trackPath := s.trackPath(candidate, format)
		if _, claimed := s.claimedPaths[trackPath]; !claimed {
			s.claimedPaths[trackPath] = struct{}{}

			return candidate, trackPath
		}

		candidate = collisionFilename(baseFilename, trackID, attempt)
	}
}

// collisionFilename returns "<base> (<id>)", numbered from the second collision on.
func collisionFilename(baseFilename, trackID string, attempt int) string {
	suffix := utils.SanitizeFilename(trackID)

	switch {
	case suffix == "":
		suffix = strconv.Itoa(attempt)
	case attempt > 1:
		suffix += " " + strconv.Itoa(attempt)
	}

	return baseFilename + " (" + suffix + ")"
}

// partFilePattern is the os.CreateTemp pattern of the temporary file for trackPath.
// Every download gets its own part file next to the final one.
func partFilePattern(trackPath string) string {
	return filepath.Base(trackPath) + ".*" + constants.ExtensionPart
}
