package ranking

import "errors"

// ErrNoKeywords is returned by RankResumesByKeywords when neither the request nor
// the job's saved keywords supply any keyword.
var ErrNoKeywords = errors.New("no keywords provided or saved for this job")
