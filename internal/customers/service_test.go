package customers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	customers map[int64]*Customer
	nextID    int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{customers: map[int64]*Customer{}, nextID: 1}
}

func (m *mockRepository) Create(_ context.Context, c Customer) (int64, error) {
	for _, existing := range m.customers {
		if existing.Phone == c.Phone {
			return 0, ErrAlreadyExists
		}
	}
	id := m.nextID
	m.nextID++
	c.ID = id
	m.customers[id] = &c
	return id, nil
}

func (m *mockRepository) Update(_ context.Context, id int64, updates map[string]interface{}) error {
	c, ok := m.customers[id]
	if !ok {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["phone"]; ok {
		c.Phone = v.(string)
	}
	return nil
}

func (m *mockRepository) Get(_ context.Context, id int64) (*Customer, error) {
	c, ok := m.customers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return c, nil
}

func (m *mockRepository) List(_ context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	var out []Customer
	for _, c := range m.customers {
		if req.Search != nil {
			term := strings.ToLower(*req.Search)
			if !strings.Contains(strings.ToLower(c.Name), term) && !strings.Contains(c.Phone, term) {
				continue
			}
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

func TestCreateRejectsDuplicatePhone(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Usta Bahrom", Phone: "+998901112233"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateCustomerRequest{Name: "Someone Else", Phone: "+998901112233"})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestUpdateAppliesOnlyProvidedFields(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Usta Bahrom", Phone: "+998901112233"})
	require.NoError(t, err)

	name := "Bahrom aka"
	updated, err := svc.Update(context.Background(), created.ID, UpdateCustomerRequest{Name: &name})
	require.NoError(t, err)
	require.Equal(t, "Bahrom aka", updated.Name)
	require.Equal(t, "+998901112233", updated.Phone)

	_, err = svc.Update(context.Background(), 999, UpdateCustomerRequest{Name: &name})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListSearchesNameAndPhone(t *testing.T) {
	svc := NewService(newMockRepository())

	_, err := svc.Create(context.Background(), CreateCustomerRequest{Name: "Usta Bahrom", Phone: "+998901112233"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateCustomerRequest{Name: "Mebel Lux", Phone: "+998935556677"})
	require.NoError(t, err)

	term := "bahrom"
	found, total, err := svc.List(context.Background(), ListCustomersRequest{Search: &term})
	require.NoError(t, err)
	require.Equal(t, 1, total)
	require.Equal(t, "Usta Bahrom", found[0].Name)

	term = "935"
	found, _, err = svc.List(context.Background(), ListCustomersRequest{Search: &term})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Mebel Lux", found[0].Name)
}
