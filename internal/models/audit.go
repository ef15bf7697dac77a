package models

// AuditLogEntry est append-only : jamais modifié ni supprimé par
// l'exploitation normale. AdminID passe à nil si l'admin est supprimé.
type AuditLogEntry struct {
	ID        int64  `json:"id"`
	AdminID   *int64 `json:"admin_id"`
	Action    string `json:"action"`
	Entity    string `json:"entity"`
	EntityID  *int64 `json:"entity_id"`
	Details   string `json:"details"`
	CreatedAt string `json:"created_at"`
}
