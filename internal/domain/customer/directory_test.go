package customer

import (
	"context"
	"strconv"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct {
	customers []Customer
	loadErr   error
	saveErr   error
	saveCalls int
}

func (m *mockRepo) Load(_ context.Context) ([]Customer, error) {
	return m.customers, m.loadErr
}

func (m *mockRepo) Save(_ context.Context, customers []Customer) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.customers = customers
	return nil
}

func newDirectory(repo *mockRepo) *Directory {
	d := NewDirectory(repo)
	n := 0
	d.newID = func() string {
		n++
		return "cust-" + strconv.Itoa(n)
	}
	return d
}

func TestNormalizeMobile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{" +91 98765 43210 ", "+919876543210"},
		{"+91-9876-543-210", "+919876543210"},
		{"00919876543210", "+919876543210"},
		{"(+977) 980-123-4567", "+9779801234567"},
		{"+919876543210", "+919876543210"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeMobile(tt.in), "input %q", tt.in)
	}
}

func TestValidMobile(t *testing.T) {
	valid := []string{"+919876543210", "+916123456789", "+9779801234567", "+9779841000000"}
	for _, m := range valid {
		assert.True(t, ValidMobile(m), "expected %q to be valid", m)
	}

	invalid := []string{
		"",
		"9876543210",         // missing country code
		"+915876543210",      // leading digit below mobile range
		"+9198765432101",     // too long
		"+91987654321",       // too short
		"+9778801234567",     // Nepali numbers start with 9
		"+12025550123",       // unsupported country
		"+91 9876543210",     // whitespace survives only normalization
		"+919876543210extra", // trailing junk
	}
	for _, m := range invalid {
		assert.False(t, ValidMobile(m), "expected %q to be invalid", m)
	}
}

func TestUpsert_Validation(t *testing.T) {
	tests := []struct {
		name      string
		customer  Customer
		wantField string
	}{
		{
			name:      "bad mobile",
			customer:  Customer{Mobile: "12345", Name: "Ram"},
			wantField: "mobile",
		},
		{
			name:      "empty mobile",
			customer:  Customer{Name: "Ram"},
			wantField: "mobile",
		},
		{
			name:      "empty name",
			customer:  Customer{Mobile: "+919876543210", Name: "   "},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepo{}
			d := newDirectory(repo)

			_, err := d.Upsert(context.Background(), tt.customer)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
			assert.Zero(t, repo.saveCalls, "no partial write on validation failure")
		})
	}
}

func TestUpsert_NewCustomer(t *testing.T) {
	repo := &mockRepo{}
	d := newDirectory(repo)

	saved, err := d.Upsert(context.Background(), Customer{
		Mobile:  "+91 98765 43210",
		Name:    "  Ram  ",
		Address: "Hardi Dali",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "+919876543210", saved.Mobile)
	assert.Equal(t, "Ram", saved.Name)
	require.Len(t, repo.customers, 1)
}

func TestUpsert_RoundTrip(t *testing.T) {
	repo := &mockRepo{}
	d := newDirectory(repo)

	saved, err := d.Upsert(context.Background(), Customer{
		Mobile: "+919876543210",
		Name:   "Ram",
	})
	require.NoError(t, err)

	found, err := d.FindByMobile(context.Background(), "+91 98765 43210")
	require.NoError(t, err)
	assert.Equal(t, *saved, *found)
}

func TestUpsert_SameIDUpdatesInPlace(t *testing.T) {
	repo := &mockRepo{}
	d := newDirectory(repo)

	first, err := d.Upsert(context.Background(), Customer{Mobile: "+919876543210", Name: "Ram"})
	require.NoError(t, err)
	_, err = d.Upsert(context.Background(), Customer{Mobile: "+9779801234567", Name: "Sita"})
	require.NoError(t, err)

	updated, err := d.Upsert(context.Background(), Customer{
		ID:      first.ID,
		Mobile:  first.Mobile,
		Name:    "Ram",
		Address: "Nautanwa",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, updated.ID)

	// Collection length unchanged, position preserved.
	require.Len(t, repo.customers, 2)
	assert.Equal(t, "Nautanwa", repo.customers[0].Address)
	assert.Equal(t, "Sita", repo.customers[1].Name)
}

func TestUpsert_DuplicateMobileRejected(t *testing.T) {
	repo := &mockRepo{}
	d := newDirectory(repo)

	_, err := d.Upsert(context.Background(), Customer{Mobile: "+919876543210", Name: "Ram"})
	require.NoError(t, err)

	_, err = d.Upsert(context.Background(), Customer{Mobile: "+91-98765-43210", Name: "Shyam"})

	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
	assert.Equal(t, "+919876543210", dupErr.Mobile)
	require.Len(t, repo.customers, 1, "collection must not grow on conflict")
}

func TestUpsert_MobileEditCollision(t *testing.T) {
	repo := &mockRepo{}
	d := newDirectory(repo)

	_, err := d.Upsert(context.Background(), Customer{Mobile: "+919876543210", Name: "Ram"})
	require.NoError(t, err)
	second, err := d.Upsert(context.Background(), Customer{Mobile: "+9779801234567", Name: "Sita"})
	require.NoError(t, err)

	// Editing Sita's mobile to Ram's number must be rejected.
	_, err = d.Upsert(context.Background(), Customer{
		ID:     second.ID,
		Mobile: "+919876543210",
		Name:   "Sita",
	})
	var dupErr *DuplicateError
	require.ErrorAs(t, err, &dupErr)
}

func TestFindByMobile_NotFound(t *testing.T) {
	d := newDirectory(&mockRepo{})

	_, err := d.FindByMobile(context.Background(), "+919876543210")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSearch(t *testing.T) {
	repo := &mockRepo{customers: []Customer{
		{ID: "c1", Mobile: "+919876543210", Name: "Ram Bahadur"},
		{ID: "c2", Mobile: "+9779801234567", Name: "Sita Devi"},
	}}
	d := newDirectory(repo)

	byName, err := d.Search(context.Background(), "ram")
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "c1", byName[0].ID)

	byMobile, err := d.Search(context.Background(), "98012")
	require.NoError(t, err)
	require.Len(t, byMobile, 1)
	assert.Equal(t, "c2", byMobile[0].ID)

	all, err := d.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpsert_SaveError(t *testing.T) {
	repo := &mockRepo{saveErr: errors.New("disk full")}
	d := newDirectory(repo)

	_, err := d.Upsert(context.Background(), Customer{Mobile: "+919876543210", Name: "Ram"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save customers")
}
