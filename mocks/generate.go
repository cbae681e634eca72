package mocks

//go:generate mockgen -destination=./mock_price_source.go -package=mocks github.com/rxtech-lab/argo-arena/internal/price Source
//go:generate mockgen -destination=./mock_polygon_client.go -package=mocks github.com/rxtech-lab/argo-arena/internal/price LastCryptoTradeClient
//go:generate mockgen -destination=./mock_strategy.go -package=mocks github.com/rxtech-lab/argo-arena/internal/strategy Strategy
//go:generate mockgen -destination=./mock_decision_provider.go -package=mocks github.com/rxtech-lab/argo-arena/internal/strategy DecisionProvider
//go:generate mockgen -destination=./mock_audit_log.go -package=mocks github.com/rxtech-lab/argo-arena/internal/audit Log
