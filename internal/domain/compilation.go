package domain

import "context"

// Compilation is a curated, optionally pinned selection of events.
// swagger:model Compilation
type Compilation struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Pinned   bool     `json:"pinned"`
	EventIDs []string `json:"event_ids"`
}

// CompilationWithEvents bundles a compilation with its resolved events.
type CompilationWithEvents struct {
	Compilation *Compilation `json:"compilation"`
	Events      []*Event     `json:"events"`
}

// CompilationUpdate is a partial update: nil fields are left unchanged.
type CompilationUpdate struct {
	Title    *string
	Pinned   *bool
	EventIDs []string
}

// CompilationRepository defines storage operations for compilations.
type CompilationRepository interface {
	Create(ctx context.Context, comp *Compilation) error
	GetByID(ctx context.Context, id string) (*Compilation, error)
	List(ctx context.Context, pinned *bool, params PaginationParams) ([]*Compilation, error)
	Update(ctx context.Context, comp *Compilation) error
	Delete(ctx context.Context, id string) error
}

// CompilationService defines compilation management and public reads.
type CompilationService interface {
	CreateCompilation(ctx context.Context, title string, pinned bool, eventIDs []string) (*CompilationWithEvents, error)
	UpdateCompilation(ctx context.Context, id string, upd CompilationUpdate) (*CompilationWithEvents, error)
	DeleteCompilation(ctx context.Context, id string) error
	ListCompilations(ctx context.Context, pinned *bool, params PaginationParams) ([]*CompilationWithEvents, error)
	GetCompilation(ctx context.Context, id string) (*CompilationWithEvents, error)
}
