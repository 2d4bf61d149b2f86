package workflow

import (
	"context"
	"errors"

	"github.com/craftfolio/studio_backend/models"
)

// The contract wizard walks five ordered steps: Template, Context, Fields,
// Review, Send. Next only advances when the current step's required inputs
// are present; Previous always works except on the first step. The terminal
// step exposes three distinct commit actions, each persisting a different
// status.

type WizardStep int

const (
	WizardStepTemplate WizardStep = iota + 1
	WizardStepContext
	WizardStepFields
	WizardStepReview
	WizardStepSend

	wizardStepFirst = WizardStepTemplate
	wizardStepLast  = WizardStepSend
)

func (s WizardStep) String() string {
	switch s {
	case WizardStepTemplate:
		return "Template"
	case WizardStepContext:
		return "Context"
	case WizardStepFields:
		return "Fields"
	case WizardStepReview:
		return "Review"
	case WizardStepSend:
		return "Send"
	}
	return "Unknown"
}

type WizardCommitAction string

const (
	WizardActionSaveDraft    WizardCommitAction = "save_draft"
	WizardActionSaveAndSend  WizardCommitAction = "save_and_send"
	WizardActionSaveTemplate WizardCommitAction = "save_template"
)

// ContractWizard holds the in-flight wizard state for one contract draft.
type ContractWizard struct {
	CurrentStep WizardStep         `json:"current_step"`
	ContractId  int                `json:"contract_id"`
	Draft       models.NewContract `json:"draft"`
}

// NewContractWizard starts a fresh flow at step 1.
func NewContractWizard() *ContractWizard {
	return &ContractWizard{CurrentStep: wizardStepFirst}
}

// ResumeContractWizard re-enters the flow for an existing contract. The
// template choice is already fixed, so resumption lands on step 2.
func ResumeContractWizard(ctx context.Context, contractId int) (*ContractWizard, error) {
	contract, err := models.GetContract(ctx, contractId)
	if err != nil {
		return nil, err
	}
	return &ContractWizard{
		CurrentStep: WizardStepContext,
		ContractId:  contract.ID,
		Draft: models.NewContract{
			Title:      contract.Title,
			ProposalId: contract.ProposalId,
			ClientId:   contract.ClientId,
			TemplateId: contract.TemplateId,
			Client:     contract.Client,
			Company:    contract.Company,
			Branding:   contract.Branding,
			Terms:      contract.Terms,
			Blocks:     contract.Blocks,
			Value:      contract.Value,
			Currency:   contract.Currency,
		},
	}, nil
}

// stepSatisfied reports whether the step's required fields are filled.
func (w *ContractWizard) stepSatisfied(step WizardStep) bool {
	switch step {
	case WizardStepTemplate:
		return w.Draft.TemplateId > 0
	case WizardStepContext:
		return w.Draft.ClientId > 0 || w.Draft.Client.Name != ""
	case WizardStepFields:
		return w.Draft.Title != ""
	case WizardStepReview, WizardStepSend:
		return true
	}
	return false
}

// CanAdvance reports whether Next would move forward from the current step.
func (w *ContractWizard) CanAdvance() bool {
	return w.CurrentStep < wizardStepLast && w.stepSatisfied(w.CurrentStep)
}

// Next advances one step. When the current step's requirements are unmet the
// call is a no-op and the wizard stays put.
func (w *ContractWizard) Next() WizardStep {
	if w.CanAdvance() {
		w.CurrentStep++
	}
	return w.CurrentStep
}

// Previous steps back, never below the first step.
func (w *ContractWizard) Previous() WizardStep {
	if w.CurrentStep > wizardStepFirst {
		w.CurrentStep--
	}
	return w.CurrentStep
}

// SelectTemplate fixes the template choice on step 1.
func (w *ContractWizard) SelectTemplate(templateId int) {
	w.Draft.TemplateId = templateId
}

// Commit runs the terminal action. It only applies on the final step; a
// persistence failure leaves the wizard exactly where it was so the caller
// can retry or back out.
func (w *ContractWizard) Commit(ctx context.Context, action WizardCommitAction) (*models.Contract, error) {

	if w.CurrentStep != wizardStepLast {
		return nil, errors.New("wizard is not on the final step")
	}

	switch action {
	case WizardActionSaveDraft:
		return w.persistContract(ctx)

	case WizardActionSaveAndSend:
		contract, err := w.persistContract(ctx)
		if err != nil {
			return nil, err
		}
		return models.UpdateContractStatus(ctx, contract.ID, models.ContractStatusSent)

	case WizardActionSaveTemplate:
		contract, err := w.persistContract(ctx)
		if err != nil {
			return nil, err
		}
		_, err = models.CreateContractTemplate(ctx, &models.NewContractTemplate{
			Name:   contract.Title,
			Terms:  contract.Terms,
			Blocks: contract.Blocks,
		})
		if err != nil {
			return nil, err
		}
		return contract, nil

	default:
		return nil, errors.New("unknown commit action")
	}
}

func (w *ContractWizard) persistContract(ctx context.Context) (*models.Contract, error) {
	if w.ContractId > 0 {
		contract, err := models.UpdateContract(ctx, w.ContractId, &w.Draft)
		if err != nil {
			return nil, err
		}
		return contract, nil
	}
	contract, err := models.CreateContract(ctx, &w.Draft)
	if err != nil {
		return nil, err
	}
	w.ContractId = contract.ID
	return contract, nil
}
