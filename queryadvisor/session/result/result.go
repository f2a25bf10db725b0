package result

func NewResult(rowsAffected int64) Result {
	return Result{rowsAffected}
}

type Result struct {
	rowsAffected int64
}

func (r Result) RowsAffected() (int64, error) {
	return r.rowsAffected, nil
}
