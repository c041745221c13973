package export

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/lvmt-matsim/ile-de-france/internal/census"
	"github.com/lvmt-matsim/ile-de-france/internal/model"
	"github.com/lvmt-matsim/ile-de-france/internal/pipeline"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testTable() *census.Table {
	return &census.Table{Persons: []model.Person{
		{
			PersonID: 0, HouseholdID: 0, Weight: 2.5,
			IrisID: "751010101", CommuneID: "75101", DepartementID: "75",
			Age: 40, Sex: model.SexFemale, CommuteMode: model.CommutePT, Employed: true,
			NumberOfVehicles: 1, HouseholdSize: 2, ConsumptionUnits: 1.5,
			SocioprofessionalClass: 3, HousingType: model.HousingFlat,
			HouseholdType: model.HouseholdCoupleNoChildren, Parking: model.ParkingAvailable,
			ConstructionPeriod: "3",
		},
		{
			PersonID: 2, HouseholdID: 0, Weight: 2.5,
			IrisID: "751010101", CommuneID: "75101", DepartementID: "75",
			Age: 41, Sex: model.SexMale, NumberOfVehicles: 1, HouseholdSize: 2,
			ConsumptionUnits: 1.5, HousingType: model.HousingFlat,
			HouseholdType: model.HouseholdCoupleNoChildren, Parking: model.ParkingAvailable,
			ConstructionPeriod: "3",
		},
		{
			PersonID: 1, HouseholdID: 1, Weight: 1,
			IrisID: model.Undefined, CommuneID: "92004", DepartementID: "92",
			Age: 7, HouseholdSize: 1, ConsumptionUnits: 1,
		},
	}}
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	res, err := Write(testTable(), Options{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "ile_de_france_persons.csv"), res.PersonsPath)
	assert.Equal(t, 3, res.Persons)
	assert.Equal(t, 2, res.Households)

	persons := readLines(t, res.PersonsPath)
	require.Len(t, persons, 4)
	assert.Equal(t, strings.Join(census.Columns, ";"), persons[0])
	assert.True(t, strings.HasPrefix(persons[1], "0;0;2.5;751010101;75101;75;40;female;false;pt;true;"))
	assert.Contains(t, persons[3], ";undefined;92004;92;7;;false;;")

	households := readLines(t, res.HouseholdsPath)
	require.Len(t, households, 3)
	assert.Equal(t, "household_id;weight;iris_id;commune_id;departement_id;number_of_vehicles;household_size;consumption_units;housing_type;household_type;parking;achlr", households[0])
	assert.True(t, strings.HasPrefix(households[1], "0;2.5;751010101;"))
	assert.True(t, strings.HasPrefix(households[2], "1;"))
}

func TestWrite_Prefix(t *testing.T) {
	dir := t.TempDir()
	res, err := Write(&census.Table{}, Options{Dir: dir, Prefix: "idf_2017_"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "idf_2017_households.csv"), res.HouseholdsPath)

	lines := readLines(t, res.PersonsPath)
	assert.Equal(t, []string{strings.Join(census.Columns, ";")}, lines)
}

func TestWrite_MissingDir(t *testing.T) {
	_, err := Write(testTable(), Options{Dir: filepath.Join(t.TempDir(), "nope")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory must exist")

	_, err = Write(testTable(), Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory is not set")
}

func TestValidateDir_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, nil, 0o644))
	assert.Error(t, ValidateDir(path))
}

func TestManifest_WriteRead(t *testing.T) {
	dir := t.TempDir()
	m := NewManifest(
		Inputs{RawPath: "census.zip", CodesPath: "codes.xlsx", Departements: []string{"75", "92"}},
		Result{Persons: 3, Households: 2},
	)
	path := ManifestPath(dir, "")
	assert.Equal(t, filepath.Join(dir, "ile_de_france_manifest.yaml"), path)
	require.NoError(t, WriteManifest(path, m))

	got, err := ReadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, m.RunID, got.RunID)
	assert.Equal(t, m.Inputs, got.Inputs)
	assert.Equal(t, 3, got.Outputs.Persons)
	assert.True(t, m.CreatedAt.Equal(got.CreatedAt))
}

func TestReadManifest_Errors(t *testing.T) {
	_, err := ReadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run_id: [unclosed"), 0o644))
	_, err = ReadManifest(path)
	require.Error(t, err)
}

type tableStage struct{ table *census.Table }

func (s tableStage) Name() string                                           { return census.StageName }
func (s tableStage) Requires() []string                                     { return nil }
func (s tableStage) Execute(context.Context, pipeline.Context) (any, error) { return s.table, nil }

type mapConfig map[string]any

func (m mapConfig) Get(key string) any { return m[key] }
func (m mapConfig) IsSet(key string) bool {
	_, ok := m[key]
	return ok
}

func TestStage(t *testing.T) {
	dir := t.TempDir()
	reg := pipeline.NewRegistry(tableStage{testTable()}, Stage{})
	r := pipeline.NewRunner(reg, mapConfig{"output.path": dir, "output.prefix": "t_"})

	v, err := r.Run(context.Background(), StageName)
	require.NoError(t, err)
	res, ok := v.(*Result)
	require.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "t_persons.csv"), res.PersonsPath)
	_, err = os.Stat(res.HouseholdsPath)
	assert.NoError(t, err)
}

func TestStage_MissingOutputPath(t *testing.T) {
	reg := pipeline.NewRegistry(tableStage{testTable()}, Stage{})
	_, err := pipeline.NewRunner(reg, nil).Run(context.Background(), StageName)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output directory is not set")
}
