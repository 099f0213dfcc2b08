package augment_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAugment(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Augment Suite")
}
