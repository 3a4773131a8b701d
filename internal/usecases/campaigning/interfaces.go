package campaigning

import (
	"context"

	"github.com/vfg2006/campaign-manager-api/internal/domain"
)

// AssetResolver confirma que a imagem referenciada foi enviada ao storage
type AssetResolver interface {
	Exists(ctx context.Context, ref string) (bool, error)
}

// AudienceSource fornece os perfis de destinatários para a prévia de audiência
type AudienceSource interface {
	ListProfiles(ctx context.Context) ([]domain.RecipientProfile, error)
}
