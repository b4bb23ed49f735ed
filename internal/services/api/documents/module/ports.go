package module

import (
	"context"

	docsdom "quill/internal/services/api/documents/domain"
	docssvc "quill/internal/services/api/documents/service"
	pipedom "quill/internal/services/pipeline/domain"
)

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// adaptDocumentsPort adapts the documents service to the domain port interface
type adaptDocumentsPort struct{ svc docssvc.Service }

// Check implements the domain ServicePort interface
func (a adaptDocumentsPort) Check(ctx context.Context, in docsdom.CheckInput) (pipedom.CheckResult, error) {
	return a.svc.Check(ctx, in)
}

// Humanize implements the domain ServicePort interface
func (a adaptDocumentsPort) Humanize(ctx context.Context, in docsdom.HumanizeInput) (pipedom.HumanizeResult, error) {
	return a.svc.Humanize(ctx, in)
}

// RecentChecks implements the domain ServicePort interface
func (a adaptDocumentsPort) RecentChecks(ctx context.Context, in docsdom.HistoryInput) ([]docsdom.CheckRecord, error) {
	return a.svc.RecentChecks(ctx, in)
}

// RecentHumanizes implements the domain ServicePort interface
func (a adaptDocumentsPort) RecentHumanizes(ctx context.Context, in docsdom.HistoryInput) ([]docsdom.HumanizeRecord, error) {
	return a.svc.RecentHumanizes(ctx, in)
}
