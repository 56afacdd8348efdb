package classgroup

import "context"

type Repository interface {
	Create(ctx context.Context, group *ClassGroup) error
	Get(ctx context.Context, id string) (*ClassGroup, error)
	List(ctx context.Context) ([]*ClassGroup, error)
	Update(ctx context.Context, group *ClassGroup) error
	Delete(ctx context.Context, id string) error
}
