package hashlab

import "github.com/scottcagno/hashlab/pkg/common"

// Table is the interface every collision strategy implements. A table has a
// fixed capacity for its whole life and reports the full cost of every
// operation in its result.
type Table interface {
	Insert(key int) (common.InsertResult, error)
	Search(key int) (common.SearchResult, error)
	Delete(key int) (common.DeleteResult, error)
	Len() int
	Cap() int
	PercentFull() float64
	Strategy() common.Strategy
}

// Config is an interface for anything that can check itself
type Config interface {
	Validate() error
}
