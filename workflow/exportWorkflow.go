package workflow

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/craftfolio/studio_backend/config"
	"github.com/craftfolio/studio_backend/models"
	"github.com/craftfolio/studio_backend/render"
	"github.com/craftfolio/studio_backend/utils"
	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// PDF export renders the document to HTML, rasterizes it in headless Chrome,
// slices the capture into A4 pages, assembles the PDF, and stores it. A
// single failed page is skipped with a warning; the export only fails when
// no page could be produced.

var documentRenderer = render.NewRenderer()

// ExportProposalPDF exports one of a proposal's bundled documents as an A4
// PDF and returns the stored object's access URL.
func ExportProposalPDF(ctx context.Context, proposalId int, kind render.DocumentKind) (string, error) {

	logger := config.GetLogger()

	proposal, err := models.GetProposal(ctx, proposalId)
	if err != nil {
		return "", err
	}

	input, err := proposalDocumentInput(proposal, kind)
	if err != nil {
		return "", err
	}
	input.GeneratedAt = time.Now().UTC()

	html, err := documentRenderer.RenderHTML(input)
	if err != nil {
		config.LogError(logger, "exportWorkflow.go", "ExportProposalPDF", "RenderHTML", proposalId, err)
		return "", err
	}

	pdfBytes, err := renderHTMLToPDF(ctx, html)
	if err != nil {
		config.LogError(logger, "exportWorkflow.go", "ExportProposalPDF", "renderHTMLToPDF", proposalId, err)
		return "", err
	}

	objectKey := fmt.Sprintf("documents/%s/%s-%d-%d.pdf", proposal.AccountId, kind, proposalId, time.Now().Unix())
	if _, err := utils.UploadObject(ctx, objectKey, bytes.NewReader(pdfBytes), utils.UploadOptions{
		ContentType:  "application/pdf",
		CacheControl: "private, max-age=0",
		Upsert:       true,
	}); err != nil {
		config.LogError(logger, "exportWorkflow.go", "ExportProposalPDF", "UploadObject", objectKey, err)
		return "", err
	}
	return utils.BuildObjectAccessURL(objectKey), nil
}

// ExportContractPDF exports a standalone contract record.
func ExportContractPDF(ctx context.Context, contractId int) (string, error) {

	logger := config.GetLogger()

	contract, err := models.GetContract(ctx, contractId)
	if err != nil {
		return "", err
	}

	input := BuildContractInput(contract)
	input.GeneratedAt = time.Now().UTC()

	html, err := documentRenderer.RenderHTML(input)
	if err != nil {
		config.LogError(logger, "exportWorkflow.go", "ExportContractPDF", "RenderHTML", contractId, err)
		return "", err
	}

	pdfBytes, err := renderHTMLToPDF(ctx, html)
	if err != nil {
		config.LogError(logger, "exportWorkflow.go", "ExportContractPDF", "renderHTMLToPDF", contractId, err)
		return "", err
	}

	objectKey := fmt.Sprintf("documents/%s/contract-%d-%d.pdf", contract.AccountId, contractId, time.Now().Unix())
	if _, err := utils.UploadObject(ctx, objectKey, bytes.NewReader(pdfBytes), utils.UploadOptions{
		ContentType:  "application/pdf",
		CacheControl: "private, max-age=0",
		Upsert:       true,
	}); err != nil {
		config.LogError(logger, "exportWorkflow.go", "ExportContractPDF", "UploadObject", objectKey, err)
		return "", err
	}
	return utils.BuildObjectAccessURL(objectKey), nil
}

func proposalDocumentInput(proposal *models.Proposal, kind render.DocumentKind) (render.DocumentInput, error) {
	switch kind {
	case render.DocumentKindProposal:
		if !proposal.Documents.ProposalEnabled {
			return render.DocumentInput{}, errors.New("the proposal document is disabled")
		}
		return BuildProposalInput(proposal)
	case render.DocumentKindContract:
		if !proposal.Documents.ContractEnabled {
			return render.DocumentInput{}, errors.New("the contract document is disabled")
		}
		return BuildContractInputFromProposal(proposal), nil
	case render.DocumentKindInvoice:
		if !proposal.Documents.InvoiceEnabled {
			return render.DocumentInput{}, errors.New("the invoice document is disabled")
		}
		return BuildInvoiceInput(proposal)
	}
	return render.DocumentInput{}, errors.New("unknown document kind")
}

// renderHTMLToPDF rasterizes the HTML in headless Chrome and reassembles the
// full-height capture into A4 pages.
func renderHTMLToPDF(ctx context.Context, html string) ([]byte, error) {

	logger := config.GetLogger()

	controlURL, err := launcher.New().Headless(true).NoSandbox(true).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, err
	}
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             render.PageWidthPx,
		Height:            render.PageHeightPx,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, err
	}
	if err := page.SetDocumentContent(html); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}

	capture, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to capture page: %w", err)
	}

	img, err := imaging.Decode(bytes.NewReader(capture))
	if err != nil {
		return nil, fmt.Errorf("failed to decode capture: %w", err)
	}

	bounds := img.Bounds()
	slices := render.PageSlices(bounds.Dx(), bounds.Dy())

	pdf := fpdf.New("P", "mm", "A4", "")
	pages := 0
	for i, rect := range slices {
		pageImg := imaging.Crop(img, rect)
		if pageImg.Bounds().Dx() != render.PageWidthPx {
			pageImg = imaging.Resize(pageImg, render.PageWidthPx, 0, imaging.Lanczos)
		}

		var pngBuf bytes.Buffer
		if err := imaging.Encode(&pngBuf, pageImg, imaging.PNG); err != nil {
			// One bad page does not sink the export.
			config.LogWarn(logger, "exportWorkflow.go", "renderHTMLToPDF", fmt.Sprintf("encode page %d", i+1), err)
			continue
		}

		name := fmt.Sprintf("page-%d", i+1)
		pdf.AddPage()
		pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &pngBuf)
		heightMM := render.PxToMM(pageImg.Bounds().Dy())
		if heightMM > render.PageHeightMM {
			heightMM = render.PageHeightMM
		}
		pdf.ImageOptions(name, 0, 0, render.PageWidthMM, heightMM, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		pages++
	}
	if pages == 0 {
		return nil, errors.New("no pages could be rendered")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
