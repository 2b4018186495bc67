package catalog

import (
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	catalogEntity "stockops.GO/model/entity/catalog"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&catalogEntity.Brand{},
		&catalogEntity.Component{},
		&catalogEntity.ProductSku{},
		&catalogEntity.BomEntry{},
		&catalogEntity.SkuMapping{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func testRepo(t *testing.T) (*CatalogRepository, *gorm.DB) {
	t.Helper()
	db := testDB(t)
	repo, err := NewCatalogRepository(db)
	if err != nil {
		t.Fatalf("NewCatalogRepository: %v", err)
	}
	return repo, db
}

func TestNewCatalogRepository(t *testing.T) {
	repo, _ := testRepo(t)
	if repo == nil {
		t.Fatal("NewCatalogRepository returned nil")
	}
}

func TestCatalogRepository_ComponentLookups(t *testing.T) {
	repo, db := testRepo(t)

	comp := catalogEntity.Component{SKU: "FELT-GREY-3MM", Name: "Grey felt 3mm", IsActive: true}
	if err := db.Create(&comp).Error; err != nil {
		t.Fatalf("seed component: %v", err)
	}

	byID, err := repo.GetComponentByID(comp.ComponentID)
	if err != nil {
		t.Fatalf("GetComponentByID: %v", err)
	}
	if byID == nil || byID.SKU != "FELT-GREY-3MM" {
		t.Errorf("GetComponentByID = %+v, want FELT-GREY-3MM", byID)
	}

	bySku, err := repo.GetComponentBySKU("FELT-GREY-3MM")
	if err != nil {
		t.Fatalf("GetComponentBySKU: %v", err)
	}
	if bySku == nil || bySku.ComponentID != comp.ComponentID {
		t.Errorf("GetComponentBySKU = %+v, want id %d", bySku, comp.ComponentID)
	}

	// Absent rows come back nil, not as errors.
	missing, err := repo.GetComponentByID(9999)
	if err != nil {
		t.Fatalf("GetComponentByID missing: %v", err)
	}
	if missing != nil {
		t.Errorf("GetComponentByID missing = %+v, want nil", missing)
	}
}

func TestCatalogRepository_GetActiveComponents(t *testing.T) {
	repo, db := testRepo(t)

	for _, c := range []catalogEntity.Component{
		{SKU: "ZIP-BLACK", Name: "Black zipper", IsActive: true},
		{SKU: "CORK-PAD", Name: "Cork pad", IsActive: true},
		{SKU: "OLD-CLASP", Name: "Retired clasp", IsActive: false},
	} {
		if err := db.Create(&c).Error; err != nil {
			t.Fatalf("seed %s: %v", c.SKU, err)
		}
	}

	active, err := repo.GetActiveComponents()
	if err != nil {
		t.Fatalf("GetActiveComponents: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("got %d components, want 2", len(active))
	}
	if active[0].SKU != "CORK-PAD" || active[1].SKU != "ZIP-BLACK" {
		t.Errorf("order = [%s %s], want SKU ascending", active[0].SKU, active[1].SKU)
	}
}

func TestCatalogRepository_GetComponentsByIDs(t *testing.T) {
	repo, db := testRepo(t)

	c1 := catalogEntity.Component{SKU: "BATCH-1", Name: "One", IsActive: true}
	c2 := catalogEntity.Component{SKU: "BATCH-2", Name: "Two", IsActive: true}
	db.Create(&c1)
	db.Create(&c2)

	m, err := repo.GetComponentsByIDs([]uint{c1.ComponentID, c2.ComponentID, 9999})
	if err != nil {
		t.Fatalf("GetComponentsByIDs: %v", err)
	}
	if len(m) != 2 {
		t.Errorf("got %d entries, want 2", len(m))
	}
	if m[c1.ComponentID].SKU != "BATCH-1" {
		t.Errorf("m[%d].SKU = %q, want BATCH-1", c1.ComponentID, m[c1.ComponentID].SKU)
	}

	empty, err := repo.GetComponentsByIDs(nil)
	if err != nil {
		t.Fatalf("GetComponentsByIDs nil: %v", err)
	}
	if len(empty) != 0 {
		t.Errorf("nil ids: got %d entries, want 0", len(empty))
	}
}

func TestCatalogRepository_ProductSkuSet(t *testing.T) {
	repo, _ := testRepo(t)

	for _, sku := range []string{"GB-CLASSIC", "GB-MINI"} {
		if err := repo.CreateProductSku(&catalogEntity.ProductSku{SKU: sku, BrandID: 1}); err != nil {
			t.Fatalf("CreateProductSku %s: %v", sku, err)
		}
	}

	set, err := repo.ProductSkuSet()
	if err != nil {
		t.Fatalf("ProductSkuSet: %v", err)
	}
	if len(set) != 2 {
		t.Errorf("got %d skus, want 2", len(set))
	}
	if _, ok := set["GB-CLASSIC"]; !ok {
		t.Error("GB-CLASSIC missing from set")
	}
}

func TestCatalogRepository_BomEntries(t *testing.T) {
	repo, _ := testRepo(t)

	e1 := catalogEntity.BomEntry{ProductSku: "GB-CLASSIC", ComponentID: 1, Quantity: 2}
	e2 := catalogEntity.BomEntry{ProductSku: "GB-CLASSIC", ComponentID: 2, Quantity: 1}
	e3 := catalogEntity.BomEntry{ProductSku: "GB-MINI", ComponentID: 1, Quantity: 1}
	for _, e := range []*catalogEntity.BomEntry{&e1, &e2, &e3} {
		if err := repo.CreateBomEntry(e); err != nil {
			t.Fatalf("CreateBomEntry: %v", err)
		}
	}

	exists, err := repo.BomEntryExists("GB-CLASSIC", 1)
	if err != nil {
		t.Fatalf("BomEntryExists: %v", err)
	}
	if !exists {
		t.Error("BomEntryExists(GB-CLASSIC, 1) = false, want true")
	}
	exists, _ = repo.BomEntryExists("GB-CLASSIC", 99)
	if exists {
		t.Error("BomEntryExists(GB-CLASSIC, 99) = true, want false")
	}

	entries, err := repo.GetBomEntriesByProductSku("GB-CLASSIC")
	if err != nil {
		t.Fatalf("GetBomEntriesByProductSku: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].BomEntryID > entries[1].BomEntryID {
		t.Error("entries not ordered by id ascending")
	}

	grouped, err := repo.GetBomEntriesForSkus([]string{"GB-CLASSIC", "GB-MINI", "NO-BOM"})
	if err != nil {
		t.Fatalf("GetBomEntriesForSkus: %v", err)
	}
	if len(grouped["GB-CLASSIC"]) != 2 || len(grouped["GB-MINI"]) != 1 {
		t.Errorf("grouping = %v", grouped)
	}
	if _, ok := grouped["NO-BOM"]; ok {
		t.Error("sku without BOM should be absent from map")
	}

	e1.Quantity = 5
	e1.Notes = "doubled up"
	if err := repo.UpdateBomEntry(&e1); err != nil {
		t.Fatalf("UpdateBomEntry: %v", err)
	}
	got, err := repo.GetBomEntryByID(e1.BomEntryID)
	if err != nil {
		t.Fatalf("GetBomEntryByID: %v", err)
	}
	if got.Quantity != 5 || got.Notes != "doubled up" {
		t.Errorf("after update: %+v", got)
	}

	if err := repo.DeleteBomEntry(e3.BomEntryID); err != nil {
		t.Fatalf("DeleteBomEntry: %v", err)
	}
	gone, err := repo.GetBomEntryByID(e3.BomEntryID)
	if err != nil {
		t.Fatalf("GetBomEntryByID after delete: %v", err)
	}
	if gone != nil {
		t.Errorf("deleted entry still present: %+v", gone)
	}
}

func TestCatalogRepository_Mappings(t *testing.T) {
	repo, _ := testRepo(t)

	m1 := catalogEntity.SkuMapping{OldSku: "GB-OLD", CurrentSku: "GB-CLASSIC", Platform: "etsy"}
	m2 := catalogEntity.SkuMapping{OldSku: "GB-LEGACY", CurrentSku: "GB-OLD"}
	if err := repo.CreateMapping(&m1); err != nil {
		t.Fatalf("CreateMapping: %v", err)
	}
	if err := repo.CreateMapping(&m2); err != nil {
		t.Fatalf("CreateMapping: %v", err)
	}

	table, err := repo.MappingTable()
	if err != nil {
		t.Fatalf("MappingTable: %v", err)
	}
	if table["GB-OLD"] != "GB-CLASSIC" || table["GB-LEGACY"] != "GB-OLD" {
		t.Errorf("MappingTable = %v", table)
	}

	byOld, err := repo.GetMappingByOldSku("GB-OLD")
	if err != nil {
		t.Fatalf("GetMappingByOldSku: %v", err)
	}
	if byOld == nil || byOld.CurrentSku != "GB-CLASSIC" {
		t.Errorf("GetMappingByOldSku = %+v", byOld)
	}
	absent, err := repo.GetMappingByOldSku("NEVER-MAPPED")
	if err != nil {
		t.Fatalf("GetMappingByOldSku absent: %v", err)
	}
	if absent != nil {
		t.Errorf("absent mapping = %+v, want nil", absent)
	}

	all, err := repo.ListMappings()
	if err != nil {
		t.Fatalf("ListMappings: %v", err)
	}
	if len(all) != 2 || all[0].SkuMappingID > all[1].SkuMappingID {
		t.Errorf("ListMappings = %v", all)
	}

	if err := repo.DeleteMapping(m1.SkuMappingID); err != nil {
		t.Fatalf("DeleteMapping: %v", err)
	}
	if err := repo.DeleteMapping(m1.SkuMappingID); err != gorm.ErrRecordNotFound {
		t.Errorf("DeleteMapping twice: err = %v, want ErrRecordNotFound", err)
	}
}
