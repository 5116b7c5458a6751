package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDialURL(t *testing.T) {
	type args struct {
		dialURL string
	}
	tests := []struct {
		name    string
		args    args
		want    *Config
		wantErr bool
	}{
		{
			name:    "wrong scheme",
			args:    args{dialURL: "http://localhost"},
			wantErr: true,
		},
		{
			name: "normal",
			args: args{dialURL: "mongodb://localhost/"},
			want: &Config{DialAddress: "mongodb://localhost/"},
		},
		{
			name: "srv",
			args: args{dialURL: "mongodb+srv://cluster.example.com/"},
			want: &Config{DialAddress: "mongodb+srv://cluster.example.com/"},
		},
		{
			name: "ssl",
			args: args{dialURL: "mongodb://localhost/?ssl=true"},
			want: &Config{DialAddress: "mongodb://localhost/", SSL: true},
		},
		{
			name: "ssl insecure",
			args: args{dialURL: "mongodb://localhost/?ssl=true&tlsInsecure=true"},
			want: &Config{DialAddress: "mongodb://localhost/", SSL: true, InsecureSSL: true},
		},
		{
			name: "keeps other options",
			args: args{dialURL: "mongodb://localhost/?authSource=admin&tls=true"},
			want: &Config{DialAddress: "mongodb://localhost/?authSource=admin", SSL: true},
		},
		{
			name: "tls",
			args: args{dialURL: "mongodb://localhost/?tls=true"},
			want: &Config{DialAddress: "mongodb://localhost/", SSL: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDialURL(tt.args.dialURL)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
