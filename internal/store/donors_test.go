package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/erazemk/blooddonors/internal/db"
	"github.com/erazemk/blooddonors/internal/donor"
	"github.com/erazemk/blooddonors/internal/model"
)

func input(name, group, district string) donor.Input {
	return donor.Input{Name: name, BloodGroup: group, District: district, Phone: "9847000000"}
}

func TestCreateAndGetDonor(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	w := 62.0

	in := input("Anu", "O+", "Kollam")
	in.Weight = &w
	in.LastDonated = "2024-02-01"
	in.Availability = model.Override(false)

	d, err := CreateDonor(ctx, database, in.Row(""))
	if err != nil {
		t.Fatalf("CreateDonor: %v", err)
	}
	if d.ID == "" {
		t.Fatal("expected generated id")
	}
	if d.Name != "Anu" || d.BloodGroup != "O+" || d.District != "Kollam" {
		t.Errorf("unexpected donor %+v", d)
	}
	if d.Weight == nil || *d.Weight != 62 {
		t.Errorf("expected weight 62, got %v", d.Weight)
	}
	if d.LastDonatedString() != "2024-02-01" {
		t.Errorf("expected last donated 2024-02-01, got %q", d.LastDonatedString())
	}
	if v, ok := d.Availability.Overridden(); !ok || v {
		t.Errorf("expected override false, got %v %v", v, ok)
	}

	missing, err := GetDonor(ctx, database, "nope")
	if err != nil {
		t.Fatalf("GetDonor: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing donor")
	}
}

func TestQueryDonorsPaging(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	for i := 0; i < 45; i++ {
		CreateDonor(ctx, database, input(fmt.Sprintf("Donor %02d", i), "O+", "Ernakulam").Row(""))
	}
	for i := 0; i < 5; i++ {
		CreateDonor(ctx, database, input(fmt.Sprintf("Other %02d", i), "A-", "Kollam").Row(""))
	}

	gw := donor.NewGateway(&DonorStore{DB: database})
	c := donor.Criteria{BloodGroup: "O+", District: "all"}

	for page, want := range map[int]int{1: 20, 2: 20, 3: 5} {
		p, err := gw.FetchPage(ctx, page, 20, c)
		if err != nil {
			t.Fatalf("FetchPage(%d): %v", page, err)
		}
		if len(p.Items) != want {
			t.Errorf("page %d: expected %d items, got %d", page, want, len(p.Items))
		}
		if p.Total != 45 {
			t.Errorf("page %d: expected total 45, got %d", page, p.Total)
		}
	}

	p, _ := gw.FetchPage(ctx, 1, 20, c)
	if p.Items[0].Name != "Donor 00" || p.Items[19].Name != "Donor 19" {
		t.Errorf("expected name order, got %q..%q", p.Items[0].Name, p.Items[19].Name)
	}

	all, _ := gw.FetchPage(ctx, 1, 100, donor.Criteria{BloodGroup: "all", District: "all"})
	if all.Total != 50 {
		t.Errorf("expected 50 donors unfiltered, got %d", all.Total)
	}

	kollam, _ := gw.FetchPage(ctx, 1, 100, donor.Criteria{District: "kollam"})
	if kollam.Total != 5 {
		t.Errorf("expected 5 donors in Kollam, got %d", kollam.Total)
	}
}

func TestDonorStoreUpdateAndDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	s := &DonorStore{DB: database}

	d, err := s.CreateDonor(ctx, input("Biju", "A+", "Thrissur"))
	if err != nil {
		t.Fatalf("CreateDonor: %v", err)
	}

	updated, err := s.UpdateDonor(ctx, d.ID, input("Biju K", "B+", "Thrissur"))
	if err != nil {
		t.Fatalf("UpdateDonor: %v", err)
	}
	if updated.Name != "Biju K" || updated.BloodGroup != "B+" {
		t.Errorf("unexpected update result %+v", updated)
	}

	if _, err := s.UpdateDonor(ctx, "missing", input("X", "A+", "Kollam")); !errors.Is(err, donor.ErrNotFound) {
		t.Errorf("expected ErrNotFound on update, got %v", err)
	}

	if err := s.DeleteDonor(ctx, d.ID); err != nil {
		t.Fatalf("DeleteDonor: %v", err)
	}
	if _, err := s.GetDonor(ctx, d.ID); !errors.Is(err, donor.ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := s.DeleteDonor(ctx, d.ID); !errors.Is(err, donor.ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListDonorsOrderedByName(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	CreateDonor(ctx, database, input("chitra", "O+", "Kollam").Row(""))
	CreateDonor(ctx, database, input("Anu", "O+", "Kollam").Row(""))
	CreateDonor(ctx, database, input("Biju", "O+", "Kollam").Row(""))

	donors, err := ListDonors(ctx, database)
	if err != nil {
		t.Fatalf("ListDonors: %v", err)
	}
	if len(donors) != 3 {
		t.Fatalf("expected 3 donors, got %d", len(donors))
	}
	got := []string{donors[0].Name, donors[1].Name, donors[2].Name}
	want := []string{"Anu", "Biju", "chitra"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("expected order %v, got %v", want, got)
			break
		}
	}
}
