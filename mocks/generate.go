package mocks

//go:generate mockgen -destination=./mock_repository.go -package=mocks github.com/KryptoMuratLive/bit-insight-sub000/internal/journal Repository
//go:generate mockgen -destination=./mock_source.go -package=mocks github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator Source
//go:generate mockgen -destination=./mock_scorer.go -package=mocks github.com/KryptoMuratLive/bit-insight-sub000/internal/aggregator/sources Scorer
