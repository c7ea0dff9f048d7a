package models

type RFPStatus string

const (
	RFPStatusPending   RFPStatus = "pending"
	RFPStatusProcessed RFPStatus = "processed"
	RFPStatusApproved  RFPStatus = "approved"
	RFPStatusRejected  RFPStatus = "rejected"
)

// Valid reports whether s is one of the known RFP statuses.
func (s RFPStatus) Valid() bool {
	switch s {
	case RFPStatusPending, RFPStatusProcessed, RFPStatusApproved, RFPStatusRejected:
		return true
	}
	return false
}

// RFP is a client's request-for-proposal document. Content is free text;
// extraction of structured requirements happens per pipeline run and is never
// stored back onto the RFP.
type RFP struct {
	ID      string    `json:"rfp_id"`
	Client  string    `json:"client"`
	Content string    `json:"content"`
	Date    string    `json:"date"`
	Status  RFPStatus `json:"status"`
}

type ProcessRFPRequest struct {
	RFPID string `json:"rfp_id" binding:"required"`
}

type UpdateRFPStatusRequest struct {
	Status RFPStatus `json:"status" binding:"required"`
}
