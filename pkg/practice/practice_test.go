package practice

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/practicemap/pkg/reconcile"
	"github.com/agentstation/practicemap/pkg/records"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"ST JAMES'S  PRACTICE", []string{"ST", " ", "JAMES", "'", "S", "  ", "PRACTICE"}},
		{"AB1 2CD", []string{"AB", "1 2", "CD"}},
		{"123", []string{"123"}},
		{"Café", []string{"Café"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, tokenize(tt.in))
		})
	}
}

func TestFormatName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LONDON MEDICAL PRACTICE", "London Medical Practice"},
		{"ST JAMES'S  PRACTICE", "St James'S  Practice"},
		{"DR McDONALD & PARTNERS", "Dr Mcdonald & Partners"},
		{"THE 3RD STREET SURGERY", "The 3Rd Street Surgery"},
		{"London", "London"},
		{"", ""},
		{"ÉCOLE MÉDICALE", "École Médicale"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatName(tt.in))
		})
	}

	t.Run("idempotent for correctly cased words", func(t *testing.T) {
		once := FormatName("LONDON MEDICAL PRACTICE")
		assert.Equal(t, once, FormatName(once))
	})
}

func TestFormatAddress(t *testing.T) {
	tests := []struct {
		name     string
		lines    [5]string
		postcode string
		want     string
	}{
		{
			name:     "alphanumeric postcode",
			lines:    [5]string{"123 HIGH ST", "", "", "", ""},
			postcode: "AB1 2CD",
			want:     "123 High St, Ab1 2Cd",
		},
		{
			name:     "empty lines dropped",
			lines:    [5]string{"THE HEALTH CENTRE", "", "LAWSON STREET", "", "STOCKTON"},
			postcode: "TS18 1HU",
			want:     "The Health Centre, Lawson Street, Stockton, Ts18 1Hu",
		},
		{
			name:     "mixed case tokens untouched",
			lines:    [5]string{"McKENZIE HOUSE", "St Mary's ROAD", "", "", ""},
			postcode: "N1 1AA",
			want:     "McKENZIE House, St Mary's Road, N1 1Aa",
		},
		{
			name:     "empty postcode still appended",
			lines:    [5]string{"1 HIGH STREET", "", "", "", ""},
			postcode: "",
			want:     "1 High Street, ",
		},
		{
			name:  "nothing at all",
			lines: [5]string{},
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAddress(tt.lines, tt.postcode))
		})
	}
}

func newRegistry(t *testing.T, code, status, setting string) *records.RegistryRecord {
	t.Helper()
	row := make([]string, records.RegistryColumnCount)
	row[records.ColOrganisationCode] = code
	row[records.ColName] = "ST JAMES'S PRACTICE"
	row[records.ColAddressLine1] = "123 HIGH ST"
	row[records.ColPostcode] = "AB1 2CD"
	row[records.ColStatusCode] = status
	row[records.ColPrescribingSetting] = setting
	rec, err := records.NewRegistryRecord(row)
	require.NoError(t, err)
	return &rec
}

func newDirectory(t *testing.T, fields map[string]string) *records.DirectoryRecord {
	t.Helper()
	rec, err := records.NewDirectoryRecord(fields)
	require.NoError(t, err)
	return &rec
}

func TestReason(t *testing.T) {
	tests := []struct {
		name string
		org  reconcile.Organisation
		want Reason
	}{
		{"directory only", reconcile.Organisation{Code: "D1", Directory: newDirectory(t, map[string]string{"OrganisationCode": "D1"})}, Incomplete},
		{"closed gp", reconcile.Organisation{Code: "A1", Registry: newRegistry(t, "A1", "C", "4")}, Inactive},
		{"closed non gp", reconcile.Organisation{Code: "A2", Registry: newRegistry(t, "A2", "C", "1")}, Inactive},
		{"active non gp", reconcile.Organisation{Code: "A3", Registry: newRegistry(t, "A3", "A", "1")}, NotGPPractice},
		{"active gp", reconcile.Organisation{Code: "A4", Registry: newRegistry(t, "A4", "A", "4")}, Kept},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := New(tt.org)
			assert.Equal(t, tt.want, p.Reason())
			assert.Equal(t, tt.want == Kept, p.Keep())
		})
	}

	t.Run("custom codes", func(t *testing.T) {
		p := New(reconcile.Organisation{Code: "A5", Registry: newRegistry(t, "A5", "O", "2")},
			WithStatusCode("O"), WithPrescribingSetting("2"))
		assert.True(t, p.Keep())
	})
}

func TestOutput(t *testing.T) {
	t.Run("registry only mode", func(t *testing.T) {
		p := New(reconcile.Organisation{Code: "A001", Registry: newRegistry(t, "A001", "A", "4")})
		data, err := json.Marshal(p.Output(false))
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"organisation_code": "A001",
			"name": "St James'S Practice",
			"address": "123 High St, Ab1 2Cd",
			"contact_telephone_number": ""
		}`, string(data))
	})

	t.Run("joined with coordinates", func(t *testing.T) {
		p := New(reconcile.Organisation{
			Code:      "A001",
			Registry:  newRegistry(t, "A001", "A", "4"),
			Directory: newDirectory(t, map[string]string{"OrganisationCode": "A001", "Latitude": "51.5", "Longitude": "-0.12"}),
		})
		data, err := json.Marshal(p.Output(true))
		require.NoError(t, err)
		assert.Equal(t,
			`{"organisation_code":"A001","name":"St James'S Practice","location":{"address":"123 High St, Ab1 2Cd","latitude":"51.5","longitude":"-0.12"},"contact_telephone_number":""}`,
			string(data))
	})

	t.Run("joined without directory side", func(t *testing.T) {
		p := New(reconcile.Organisation{Code: "A001", Registry: newRegistry(t, "A001", "A", "4")})
		data, err := json.Marshal(p.Output(true))
		require.NoError(t, err)
		assert.NotContains(t, string(data), "latitude")
		assert.NotContains(t, string(data), "longitude")
		assert.Contains(t, string(data), `"location":{"address":"123 High St, Ab1 2Cd"}`)
	})

	t.Run("empty coordinate values omitted", func(t *testing.T) {
		p := New(reconcile.Organisation{
			Code:      "A001",
			Registry:  newRegistry(t, "A001", "A", "4"),
			Directory: newDirectory(t, map[string]string{"OrganisationCode": "A001", "Latitude": "", "Longitude": "-1.5"}),
		})
		out := p.Output(true)
		require.NotNil(t, out.Location)
		assert.Empty(t, out.Location.Latitude)
		assert.Equal(t, "-1.5", out.Location.Longitude)
		assert.Nil(t, out.Address)
	})
}
