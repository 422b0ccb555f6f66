package domain

import "strings"

// DocumentRole identifies one of the four fixed upload slots.
type DocumentRole string

const (
	RoleContract    DocumentRole = "contract"
	RoleInvoice     DocumentRole = "invoice"
	RoleDescription DocumentRole = "description"
	RolePacking     DocumentRole = "packing"
)

// AllRoles lists the slots in their fixed order.
var AllRoles = []DocumentRole{RoleContract, RoleInvoice, RoleDescription, RolePacking}

// ParseDocumentRole resolves a role name case-insensitively.
func ParseDocumentRole(s string) (DocumentRole, error) {
	r := DocumentRole(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", ErrUnknownRole
	}
	return r, nil
}

// Valid reports whether r is one of the four known roles.
func (r DocumentRole) Valid() bool {
	switch r {
	case RoleContract, RoleInvoice, RoleDescription, RolePacking:
		return true
	}
	return false
}

// Label is the human-readable slot name used in user-facing messages.
func (r DocumentRole) Label() string {
	switch r {
	case RoleContract:
		return "contract"
	case RoleInvoice:
		return "invoice"
	case RoleDescription:
		return "goods description"
	case RolePacking:
		return "packing list"
	}
	return string(r)
}

// SlotStatus is the lifecycle state of a document slot.
type SlotStatus string

const (
	SlotStatusEmpty   SlotStatus = "empty"
	SlotStatusReading SlotStatus = "reading"
	SlotStatusReady   SlotStatus = "ready"
	SlotStatusError   SlotStatus = "error"
)

// FileExtension groups the extensions the text extractor dispatches on.
type FileExtension string

const (
	ExtDOCX FileExtension = "docx"
	ExtTXT  FileExtension = "txt"
)

// WorkbookContentType is the MIME type of the emitted spreadsheet.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
