package database

type RepositoryOptions struct {
	Created  bool // Manage a "created" timestamp on insert
	Modified bool // Manage a "modified" timestamp on every write
	Deleted  bool // Soft delete: deletions set a "deleted" timestamp instead of removing
}

type UpdateOptions struct {
	Insert bool
	Update bool
}
