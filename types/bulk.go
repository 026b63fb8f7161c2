package types

// BulkItemResult is the outcome of one item of a batch operation.
type BulkItemResult struct {
	ID      uint      `json:"id"`
	Success bool      `json:"success"`
	Kind    ErrorKind `json:"kind,omitempty"`
	Message string    `json:"message,omitempty"`
}

// BulkResult reports every item of a batch; a failed item never aborts the
// rest of the batch.
type BulkResult struct {
	Results   []BulkItemResult `json:"results"`
	Succeeded int              `json:"succeeded"`
	Failed    int              `json:"failed"`
}

// Add records the outcome for id.
func (r *BulkResult) Add(id uint, err error) {
	if err == nil {
		r.Results = append(r.Results, BulkItemResult{ID: id, Success: true})
		r.Succeeded++
		return
	}
	r.Results = append(r.Results, BulkItemResult{
		ID:      id,
		Success: false,
		Kind:    KindOf(err),
		Message: err.Error(),
	})
	r.Failed++
}
