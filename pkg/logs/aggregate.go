package logs

/* result codes */
const (
	ResultSuccess = 0
	ResultFailure = -1
)

// AnySuccess is the verdict of a multi container retrieval: it succeeds when at least
// one container succeeded, failures of the others are reported but do not fail the run
func AnySuccess(results []int) int {
	for _, r := range results {
		if r == ResultSuccess {
			return ResultSuccess
		}
	}
	return ResultFailure
}
