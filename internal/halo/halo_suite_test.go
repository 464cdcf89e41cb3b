package halo_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestHalo(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Halo Suite")
}
