package state

import "fmt"

// ErrCovarianceSize indicates a flattened covariance with the wrong number of entries.
type ErrCovarianceSize struct {
	Got int
}

func (e *ErrCovarianceSize) Error() string {
	return fmt.Sprintf("curvilinear covariance needs %d upper-triangle entries, got %d",
		CurvilinearDim*(CurvilinearDim+1)/2, e.Got)
}
