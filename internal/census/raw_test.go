package census

import (
	"archive/zip"
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

const rawHeader = "CANTVILLE;NUMMI;IRIS;DEPT;AGED;COUPLE;TRANS;IPONDI;SEXE;TACT;ETUD;VOIT;DEROU;CS1;ILT;ILETUD;TYPL;SFM;GARL;ACHLR;REGION"

const rawBody = rawHeader + "\n" +
	"7501;1;751010101;75;045;1;5;4.25;1;11;2;1;0;3;1;Z;2;30;1;3;11\n" +
	"7501;1;751010101;75;043;1;4;4.25;2;11;2;1;0;4;5;Z;2;30;1;3;11\n" +
	"9201;Z;920040000;92;030;2;2;3.10;2;12;1;Z;U;8;Z;1;1;11;2;1;11\n"

func TestReadRaw(t *testing.T) {
	records, err := ReadRaw(context.Background(), strings.NewReader(rawBody), RawOptions{})
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, "7501", records[0].CantonVille)
	assert.Equal(t, "751010101", records[1].Iris)
	assert.Equal(t, "Z", records[2].HouseholdSeq)
	assert.Equal(t, "U", records[2].TwoWheelsCode)
	assert.Equal(t, "3.10", records[2].WeightCode)
}

func TestReadRaw_MissingColumn(t *testing.T) {
	in := "CANTVILLE;NUMMI;IRIS\n7501;1;751010101\n"
	_, err := ReadRaw(context.Background(), strings.NewReader(in), RawOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "census: decode raw row 0")
}

func TestReadRaw_Empty(t *testing.T) {
	_, err := ReadRaw(context.Background(), strings.NewReader(""), RawOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "raw extract is empty")
}

func TestReadRaw_Latin1(t *testing.T) {
	body := strings.Replace(rawBody, ";3;11\n", ";Après;11\n", 1)
	encoded, err := charmap.ISO8859_1.NewEncoder().String(body)
	require.NoError(t, err)

	records, err := ReadRaw(context.Background(), strings.NewReader(encoded), RawOptions{Encoding: "iso-8859-1"})
	require.NoError(t, err)
	assert.Equal(t, "Après", records[0].BuiltCode)
}

func TestReadRaw_Delimiter(t *testing.T) {
	body := strings.ReplaceAll(rawBody, ";", ",")
	records, err := ReadRaw(context.Background(), strings.NewReader(body), RawOptions{Delimiter: ','})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func writeRawZip(t *testing.T, files map[string]string) string {
	t.Helper()
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	path := filepath.Join(t.TempDir(), "RP2017_INDCVI_csv.zip")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func TestReadRawFile_Zip(t *testing.T) {
	path := writeRawZip(t, map[string]string{
		"FD_INDCVI_2017.csv":     rawBody,
		"varmod_INDCVI_2017.csv": "COD_VAR;LIB_VAR\n",
	})

	records, err := ReadRawFile(context.Background(), path, "", RawOptions{})
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestReadRawFile_ZipWithoutMatch(t *testing.T) {
	path := writeRawZip(t, map[string]string{"other.csv": rawBody})
	_, err := ReadRawFile(context.Background(), path, "", RawOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "census: extract raw archive")
}

func TestReadRawFile_Missing(t *testing.T) {
	_, err := ReadRawFile(context.Background(), filepath.Join(t.TempDir(), "x.csv"), "", RawOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "census: open")
}
