package mocks

//go:generate mockery --name OrderSource --srcpkg github.com/aevon-lab/order-insights/internal/core/storage --output ./storage --outpkg storagemocks --with-expecter
