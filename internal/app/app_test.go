package app

import "testing"

func TestRunDispatch(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		args []string
		want int
	}{
		{"no args prints usage", nil, 2},
		{"help", []string{"help"}, 0},
		{"unknown command", []string{"frobnicate"}, 2},
		{"translate without text", []string{"translate"}, 2},
		{"translate without lang", []string{"translate", "hello"}, 2},
		{"stats rejects positional args", []string{"stats", "extra"}, 2},
		{"health rejects positional args", []string{"health", "extra"}, 2},
		{"serve rejects bad port", []string{"serve", "-port", "0"}, 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Run(tc.args); got != tc.want {
				t.Errorf("Run(%v) = %d, want %d", tc.args, got, tc.want)
			}
		})
	}
}

func TestParseOutputFormat(t *testing.T) {
	t.Parallel()

	if format, err := parseOutputFormat("", outputFormatTable); err != nil || format != outputFormatTable {
		t.Errorf("parseOutputFormat(\"\") = %q, %v; want table", format, err)
	}
	if format, err := parseOutputFormat("JSON", outputFormatTable); err != nil || format != outputFormatJSON {
		t.Errorf("parseOutputFormat(JSON) = %q, %v; want json", format, err)
	}
	if _, err := parseOutputFormat("yaml", outputFormatTable); err == nil {
		t.Error("parseOutputFormat(yaml) accepted, want error")
	}
}
