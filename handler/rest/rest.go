package rest

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"amplify/core"
	"amplify/handler/render"
	"amplify/handler/views"

	"github.com/go-chi/chi"
	"github.com/shopspring/decimal"
)

// Handle handle rest api request
func Handle(system *core.System,
	poolStore core.IPoolStore,
	assetService core.IAssetService,
	controllerService core.IControllerService,
	rewardsService core.IRewardsService,
	vestingService core.IVestingService,
	escrowService core.IVoteEscrowService) http.Handler {
	router := chi.NewRouter()

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		render.NotFoundRequest(w, errors.New("not found"))
	})

	router.Get("/assets/{id}", assetHandler(assetService))
	router.Get("/pools", poolsHandler(poolStore, controllerService))
	router.Get("/pools/{address}/apy", poolAPYHandler(controllerService))
	router.Get("/rewards/{account}", rewardsHandler(rewardsService))
	router.Get("/vesting/{recipient}", vestingHandler(vestingService))
	router.Get("/votes/supply", voteSupplyHandler(escrowService))
	router.Get("/votes/{account}", votesHandler(escrowService))

	return router
}

func assetHandler(assetSrv core.IAssetService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		info, err := assetSrv.GetTokenInfo(r.Context(), id)
		if err != nil {
			if core.ErrorCodeOf(err) == core.ErrAssetNotFound {
				render.NotFoundRequest(w, err)
				return
			}

			render.BadRequest(w, err)
			return
		}

		render.JSON(w, info)
	}
}

func poolsHandler(poolStr core.IPoolStore, controllerSrv core.IControllerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pools, err := poolStr.All(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		poolViews := make([]*views.Pool, 0, len(pools))
		for _, p := range pools {
			apy, err := controllerSrv.GetPoolAPY(r.Context(), p.Address)
			if err != nil {
				apy = decimal.Zero
			}

			poolViews = append(poolViews, &views.Pool{Pool: *p, APY: apy})
		}

		render.JSON(w, poolViews)
	}
}

func poolAPYHandler(controllerSrv core.IControllerService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		address := chi.URLParam(r, "address")

		apy, err := controllerSrv.GetPoolAPY(r.Context(), address)
		if err != nil {
			if core.ErrorCodeOf(err) == core.ErrPoolNotFound {
				render.NotFoundRequest(w, err)
				return
			}

			render.BadRequest(w, err)
			return
		}

		render.JSON(w, render.H{"pool": address, "apy": apy})
	}
}

func rewardsHandler(rewardsSrv core.IRewardsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")

		supply, err := rewardsSrv.GetTotalSupplyReward(r.Context(), account)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		borrow, err := rewardsSrv.GetTotalBorrowReward(r.Context(), account)
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, &views.Rewards{
			Account:     account,
			SupplyTotal: supply,
			BorrowTotal: borrow,
		})
	}
}

func vestingHandler(vestingSrv core.IVestingService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		recipient := chi.URLParam(r, "recipient")

		snapshot, err := vestingSrv.GetSnapshot(r.Context(), recipient, time.Now())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, snapshot)
	}
}

func votesHandler(escrowSrv core.IVoteEscrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := chi.URLParam(r, "account")

		power, err := escrowSrv.BalanceOf(r.Context(), account, time.Now())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, &views.Votes{Account: account, Power: power})
	}
}

func voteSupplyHandler(escrowSrv core.IVoteEscrowService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		supply, err := escrowSrv.TotalSupply(r.Context(), time.Now())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		locked, err := escrowSrv.TotalLocked(r.Context())
		if err != nil {
			render.BadRequest(w, err)
			return
		}

		render.JSON(w, &views.VoteSupply{TotalSupply: supply, TotalLocked: locked})
	}
}
