package ipc

// PostParams wraps the payload of a create command.
type PostParams[D any] struct {
	Data D `json:"data"`
}

// PutParams wraps the target id and payload of an update command.
type PutParams[D any] struct {
	ID   string `json:"id" validate:"required"`
	Data D      `json:"data"`
}

type GetParams struct {
	ID string `json:"id" validate:"required"`
}

type DeleteParams struct {
	ID string `json:"id" validate:"required"`
}

// ListParams carries an optional filter and optional 1-based paging.
type ListParams[F any] struct {
	Filter   *F   `json:"filter,omitempty"`
	Page     *int `json:"page,omitempty" validate:"omitempty,min=1,max=1000000"`
	PageSize *int `json:"pageSize,omitempty" validate:"omitempty,min=1,max=500"`
}
