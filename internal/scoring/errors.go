package scoring

import "errors"

// ErrMalformedGameStats is returned for negative counts or durations. Rank
// errors come from the rank package (rank.ErrInvalidRankString,
// rank.ErrInvalidRankValue) and are wrapped, not replaced.
var ErrMalformedGameStats = errors.New("malformed game stats")
