package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/club --output domain/club --outpkg clubmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/availability --output domain/availability --outpkg availabilitymock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/playtomiccourt --output domain/playtomiccourt --outpkg playtomiccourtmock --filename repository_mock.go
