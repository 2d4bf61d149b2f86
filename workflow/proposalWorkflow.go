package workflow

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/disintegration/imaging"
	"gorm.io/gorm"
)

// Proposal lifecycle operations that span more than one record or reach
// outside the database. Pure field edits stay in the models package.

// SendProposal flips a draft to Sent and records the domain event in the
// same transaction, so the notification pipeline never observes a send that
// was rolled back.
func SendProposal(ctx context.Context, proposalId int) (*models.Proposal, error) {

	logger := config.GetLogger()
	db := config.GetDB()

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	proposal, err := models.GetProposal(ctx, proposalId)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusDraft && proposal.Status != models.ProposalStatusSent {
		return nil, errors.New("only draft proposals can be sent")
	}
	if proposal.Client.Email == "" {
		return nil, errors.New("the proposal has no client email")
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Proposal{}).
			Where("id = ? AND account_id = ?", proposalId, accountId).
			Updates(map[string]interface{}{"Status": models.ProposalStatusSent, "SentAt": gorm.Expr("NOW()")}).Error; err != nil {
			return err
		}
		return models.EnqueueEventInTx(ctx, tx, accountId, "proposal.sent", models.EventReferenceProposal, proposalId, proposal)
	})
	if err != nil {
		config.LogError(logger, "proposalWorkflow.go", "SendProposal", "Transaction", proposalId, err)
		return nil, err
	}

	return models.GetProposal(ctx, proposalId)
}

// MarkProposalViewed records the first client open. Repeat views keep the
// original timestamp.
func MarkProposalViewed(ctx context.Context, proposalId int) (*models.Proposal, error) {

	proposal, err := models.GetProposal(ctx, proposalId)
	if err != nil {
		return nil, err
	}
	if proposal.Status != models.ProposalStatusSent {
		return proposal, nil
	}
	return models.UpdateProposalStatus(ctx, proposalId, models.ProposalStatusViewed)
}

// AcceptProposal runs the client-side acceptance: signature capture, status
// flip, and the acceptance event, all transactionally consistent.
func AcceptProposal(ctx context.Context, proposalId int, signatureName string) (*models.Proposal, error) {

	logger := config.GetLogger()
	db := config.GetDB()

	accountId, ok := utils.GetAccountIdFromContext(ctx)
	if !ok || accountId == "" {
		return nil, errors.New("account id is required")
	}

	proposal, err := models.AcceptProposalWithSignature(ctx, proposalId, signatureName)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return models.EnqueueEventInTx(ctx, tx, accountId, "proposal.accepted", models.EventReferenceProposal, proposalId, proposal)
	})
	if err != nil {
		// The acceptance itself stood; the event loss is logged, not fatal.
		config.LogWarn(logger, "proposalWorkflow.go", "AcceptProposal", "EnqueueEvent", err)
	}
	return proposal, nil
}

// UploadProposalLogo stores a base64 logo image plus a scaled-down preview
// and points the proposal's branding at the stored original. The preview is
// best effort: a thumbnail failure logs and continues.
func UploadProposalLogo(ctx context.Context, proposalId int, imageBase64 string) (*models.Proposal, error) {

	logger := config.GetLogger()

	proposal, err := models.GetProposal(ctx, proposalId)
	if err != nil {
		return nil, err
	}

	raw, err := base64.StdEncoding.DecodeString(imageBase64)
	if err != nil {
		return nil, errors.New("logo must be base64 encoded image data")
	}

	objectKey := fmt.Sprintf("logos/%s/%s.png", proposal.AccountId, utils.GenerateUniqueFilename())
	if _, err := utils.UploadObject(ctx, objectKey, bytes.NewReader(raw), utils.UploadOptions{
		ContentType:  "image/png",
		CacheControl: "public, max-age=86400",
		Upsert:       false,
	}); err != nil {
		config.LogError(logger, "proposalWorkflow.go", "UploadProposalLogo", "UploadObject", objectKey, err)
		return nil, err
	}

	// Scaled preview for list pages.
	if img, decodeErr := imaging.Decode(bytes.NewReader(raw)); decodeErr == nil {
		thumb := imaging.Fit(img, 200, 200, imaging.Lanczos)
		var thumbBuf bytes.Buffer
		if encodeErr := imaging.Encode(&thumbBuf, thumb, imaging.PNG); encodeErr == nil {
			thumbKey := fmt.Sprintf("logos/%s/thumbs/%s.png", proposal.AccountId, utils.GenerateUniqueFilename())
			if _, upErr := utils.UploadObject(ctx, thumbKey, &thumbBuf, utils.UploadOptions{
				ContentType:  "image/png",
				CacheControl: "public, max-age=86400",
				Upsert:       false,
			}); upErr != nil {
				config.LogWarn(logger, "proposalWorkflow.go", "UploadProposalLogo", "upload thumbnail", upErr)
			}
		} else {
			config.LogWarn(logger, "proposalWorkflow.go", "UploadProposalLogo", "encode thumbnail", encodeErr)
		}
	} else {
		config.LogWarn(logger, "proposalWorkflow.go", "UploadProposalLogo", "decode logo", decodeErr)
	}

	db := config.GetDB()
	proposal.Branding.LogoURL = utils.BuildObjectAccessURL(objectKey)
	proposal.Branding.ShowLogo = true
	if err := db.WithContext(ctx).Model(proposal).Update("Branding", proposal.Branding).Error; err != nil {
		return nil, err
	}
	return proposal, nil
}
