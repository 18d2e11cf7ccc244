package reviewapimodels

import (
	"estate-finance-backend/models"
	dbmodels "estate-finance-backend/models/db"
	"time"

	"github.com/pkg/errors"
)

type ReviewStartData struct {
	Kind          models.ReviewKind `json:"kind"`
	SubjectID     string            `json:"subject_id"`
	CandidateName string            `json:"candidate_name"`
}

func (r ReviewStartData) Validate() error {
	if r.Kind == "" {
		return errors.New("не указан тип согласования")
	}
	if r.SubjectID == "" {
		return errors.New("не указан объект согласования")
	}
	return nil
}

type ReviewDecideData struct {
	Decision models.ReviewStatus `json:"decision"`
	Comments string              `json:"comments"`
}

func (r ReviewDecideData) Validate() error {
	if r.Decision != models.ReviewStatusApproved && r.Decision != models.ReviewStatusRejected {
		return errors.New("решение должно быть APPROVED или REJECTED")
	}
	return nil
}

type ReviewRequestView struct {
	ID             string              `json:"id"`
	Kind           models.ReviewKind   `json:"kind"`
	SubjectID      string              `json:"subject_id"`
	CandidateName  string              `json:"candidate_name"`
	Status         models.ReviewStatus `json:"status"`
	StatusName     string              `json:"status_name"`
	SubmissionDate time.Time           `json:"submission_date"`
}

func ReviewRequestConvert(rec dbmodels.ReviewRequest) ReviewRequestView {
	view := ReviewRequestView{
		ID:             rec.ID,
		SubjectID:      rec.SubjectID,
		CandidateName:  rec.CandidateName,
		Status:         rec.Status,
		StatusName:     rec.Status.ToHuman(),
		SubmissionDate: rec.SubmissionDate,
	}
	if rec.Type != nil {
		view.Kind = rec.Type.Kind
	}
	return view
}

type CurrentStageView struct {
	Terminal   bool                   `json:"terminal"`
	Status     models.ReviewStatus    `json:"status"`
	Stage      models.ReviewStageName `json:"stage,omitempty"`
	StageOrder int                    `json:"stage_order,omitempty"`
}

type ApprovalView struct {
	ID             string                 `json:"id"`
	Stage          models.ReviewStageName `json:"stage"`
	OrganizationID string                 `json:"organization_id"`
	ApprovalID     string                 `json:"approval_id"`
	Status         models.ReviewStatus    `json:"status"`
	ApprovalDate   *time.Time             `json:"approval_date,omitempty"`
	Comments       string                 `json:"comments,omitempty"`
}

func ApprovalConvert(rec dbmodels.ReviewRequestApproval) ApprovalView {
	view := ApprovalView{
		ID:             rec.ID,
		OrganizationID: rec.OrganizationID,
		ApprovalID:     rec.ApprovalID,
		Status:         rec.Status,
		ApprovalDate:   rec.ApprovalDate,
		Comments:       rec.Comments,
	}
	if rec.TypeStage != nil && rec.TypeStage.Stage != nil {
		view.Stage = rec.TypeStage.Stage.Name
	}
	return view
}

type ApprovalHistoryView struct {
	Date           time.Time           `json:"date"`
	OrganizationID string              `json:"organization_id"`
	ApprovalID     string              `json:"approval_id"`
	Status         models.ReviewStatus `json:"status"`
	Comment        string              `json:"comment,omitempty"`
}

func ApprovalHistoryConvert(rec dbmodels.ReviewApprovalHistory) ApprovalHistoryView {
	return ApprovalHistoryView{
		Date:           rec.CreatedAt,
		OrganizationID: rec.OrganizationID,
		ApprovalID:     rec.ApprovalID,
		Status:         rec.Status,
		Comment:        rec.Comment,
	}
}
