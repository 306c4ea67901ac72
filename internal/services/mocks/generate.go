package mocks

//go:generate go run github.com/golang/mock/mockgen -destination=mock_contents_repository.go -package=mocks github.com/bionicotaku/lingo-services-settlement/internal/services ContentsRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_statistics_repository.go -package=mocks github.com/bionicotaku/lingo-services-settlement/internal/services StatisticsRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_settlement_rates_repository.go -package=mocks github.com/bionicotaku/lingo-services-settlement/internal/services SettlementRatesRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_settlements_repository.go -package=mocks github.com/bionicotaku/lingo-services-settlement/internal/services SettlementsRepository
//go:generate go run github.com/golang/mock/mockgen -destination=mock_daily_watched_content_repository.go -package=mocks github.com/bionicotaku/lingo-services-settlement/internal/services DailyWatchedContentRepository
