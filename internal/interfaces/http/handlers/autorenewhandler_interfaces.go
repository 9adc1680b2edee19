package handlers

import (
	"context"

	"github.com/orris-inc/proxyshop/internal/application/renewal/dto"
	"github.com/orris-inc/proxyshop/internal/application/renewal/usecases"
)

type autoRenewRunner interface {
	Execute(ctx context.Context, opts usecases.RunOptions) (*dto.RunReport, error)
}

type runReportReader interface {
	Last(ctx context.Context) (*dto.RunReport, error)
}
