package models

// Edge is a directed connection between two nodes on the board.
type Edge struct {
	ID     int64 `json:"id"`
	Source int64 `json:"source"`
	Target int64 `json:"target"`
}

// CreateEdgeRequest is the payload for connecting two nodes.
type CreateEdgeRequest struct {
	Source *int64 `json:"source"`
	Target *int64 `json:"target"`
}

// Validate checks that both endpoints are present. Whether they exist is
// decided by the store.
func (r *CreateEdgeRequest) Validate() error {
	if r.Source == nil {
		return ErrMissingSource
	}

	if r.Target == nil {
		return ErrMissingTarget
	}

	if *r.Source < 0 || *r.Target < 0 {
		return ErrNegativeID
	}

	return nil
}
