package domain

import (
	"context"

	pipedom "quill/internal/services/pipeline/domain"
)

// ServicePort defines the service contract for documents
type ServicePort interface {
	Check(ctx context.Context, in CheckInput) (pipedom.CheckResult, error)
	Humanize(ctx context.Context, in HumanizeInput) (pipedom.HumanizeResult, error)
	RecentChecks(ctx context.Context, in HistoryInput) ([]CheckRecord, error)
	RecentHumanizes(ctx context.Context, in HistoryInput) ([]HumanizeRecord, error)
}
