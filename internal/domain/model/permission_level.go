package model

// PermissionLevel 对应 permission_levels 表（参考数据，独立管理流程维护）。
type PermissionLevel struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:32;uniqueIndex:uk_permission_level_name" json:"name"`
}

func (PermissionLevel) TableName() string { return "permission_levels" }

// Level is the resolved permission tier of a caller.
// Ordering: Admin > Edit > Read/Default. Admin additionally bypasses
// platform-set filtering instead of carrying an explicit platform list.
type Level string

const (
	LevelAdmin   Level = "Admin"
	LevelEdit    Level = "Edit"
	LevelRead    Level = "Read"
	LevelDefault Level = "Default"
)

// CanMutate reports whether the level clears the create/update floor.
func (l Level) CanMutate() bool { return l == LevelAdmin || l == LevelEdit }
