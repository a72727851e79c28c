package asset

import (
	"context"

	"amplify/core"

	"github.com/asaskevich/govalidator"
	"github.com/fox-one/pkg/logger"
	"github.com/shopspring/decimal"
)

type assetService struct {
	core.Ownable

	address    string
	riskStore  core.IRiskItemStore
	assetStore core.IAssetStore
}

// New new asset registry service
func New(owner, address string, riskStore core.IRiskItemStore, assetStore core.IAssetStore) core.IAssetService {
	return &assetService{
		Ownable:    core.Ownable{Owner: owner},
		address:    address,
		riskStore:  riskStore,
		assetStore: assetStore,
	}
}

func (s *assetService) Address() string {
	return s.address
}

func (s *assetService) IsAssetsFactory(ctx context.Context) bool {
	return true
}

func (s *assetService) AddRiskItem(ctx context.Context, caller, rating string, advanceRate, interestRate decimal.Decimal) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	if rating == "" || advanceRate.IsNegative() || interestRate.IsNegative() {
		return core.Errorf(core.ErrInvalidArgument, "invalid risk item %q", rating)
	}

	item, err := s.riskStore.Find(ctx, rating)
	if err != nil {
		return err
	}

	if item.ID > 0 {
		item.AdvanceRate = advanceRate
		item.InterestRate = interestRate
		return s.riskStore.Update(ctx, item)
	}

	return s.riskStore.Save(ctx, &core.RiskItem{
		Rating:       rating,
		AdvanceRate:  advanceRate,
		InterestRate: interestRate,
	})
}

func (s *assetService) UpdateRiskItem(ctx context.Context, caller, rating string, advanceRate, interestRate decimal.Decimal) error {
	return s.AddRiskItem(ctx, caller, rating, advanceRate, interestRate)
}

// RemoveRiskItem tombstones the rating, both rates drop to zero.
func (s *assetService) RemoveRiskItem(ctx context.Context, caller, rating string) error {
	if err := s.RequireOwner(caller); err != nil {
		return err
	}

	item, err := s.riskStore.Find(ctx, rating)
	if err != nil {
		return err
	}

	if item.ID == 0 {
		return core.Errorf(core.ErrRiskItemNotFound, "risk item %q not found", rating)
	}

	item.AdvanceRate = decimal.Zero
	item.InterestRate = decimal.Zero

	return s.riskStore.Update(ctx, item)
}

func (s *assetService) GetRiskItem(ctx context.Context, rating string) (decimal.Decimal, decimal.Decimal, error) {
	item, err := s.riskStore.Find(ctx, rating)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return item.AdvanceRate, item.InterestRate, nil
}

func (s *assetService) TokenizeAsset(ctx context.Context, caller, hash, rating string, faceValue decimal.Decimal, maturity int64, uri string) (uint64, error) {
	log := logger.FromContext(ctx).WithField("service", "asset")

	if caller == "" || hash == "" || !faceValue.IsPositive() {
		return 0, core.Errorf(core.ErrInvalidArgument, "tokenize hash %q value %s", hash, faceValue)
	}

	if uri != "" && !govalidator.IsRequestURI(uri) {
		return 0, core.Errorf(core.ErrInvalidArgument, "invalid token uri %q", uri)
	}

	existing, err := s.assetStore.FindByHash(ctx, hash)
	if err != nil {
		return 0, err
	}

	if existing.ID > 0 {
		return 0, core.Errorf(core.ErrHashAlreadyUsed, "hash %q already tokenized as %d", hash, existing.ID)
	}

	asset := &core.Asset{
		Hash:      hash,
		Rating:    rating,
		FaceValue: faceValue,
		Maturity:  maturity,
		URI:       uri,
		Owner:     caller,
	}

	if err := s.assetStore.Create(ctx, asset); err != nil {
		log.WithError(err).Errorln("create asset")
		return 0, err
	}

	return asset.ID, nil
}

func (s *assetService) MarkAsRedeemed(ctx context.Context, caller string, id uint64) error {
	asset, err := s.assetStore.Find(ctx, id)
	if err != nil {
		return err
	}

	if asset.ID == 0 {
		return core.Errorf(core.ErrAssetNotFound, "asset %d not found", id)
	}

	if asset.Owner != caller {
		return core.Errorf(core.ErrNotOwner, "caller %s does not own asset %d", caller, id)
	}

	if asset.Redeemed {
		return core.Errorf(core.ErrAlreadyRedeemed, "asset %d already redeemed", id)
	}

	asset.Redeemed = true

	return s.assetStore.Update(ctx, asset)
}

// GetTokenInfo resolves the asset's rates against the risk table at query
// time, so later table edits show through.
func (s *assetService) GetTokenInfo(ctx context.Context, id uint64) (*core.TokenInfo, error) {
	asset, err := s.assetStore.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	if asset.ID == 0 {
		return nil, core.Errorf(core.ErrAssetNotFound, "asset %d not found", id)
	}

	item, err := s.riskStore.Find(ctx, asset.Rating)
	if err != nil {
		return nil, err
	}

	return &core.TokenInfo{
		ID:           asset.ID,
		FaceValue:    asset.FaceValue,
		Maturity:     asset.Maturity,
		AdvanceRate:  item.AdvanceRate,
		InterestRate: item.InterestRate,
		Rating:       asset.Rating,
		Hash:         asset.Hash,
		Owner:        asset.Owner,
		Redeemed:     asset.Redeemed,
	}, nil
}
