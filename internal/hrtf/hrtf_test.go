package hrtf

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild_IpsilateralGainExceedsContralateral(t *testing.T) {
	table := Build()
	// Left ear (index 0) faces azimuth 270; azimuth 90 is fully contralateral.
	ipsi := table[0][270][90] // elevation index 90 == 0 degrees
	contra := table[0][90][90]
	for b := range ipsi {
		require.GreaterOrEqual(t, ipsi[b], contra[b])
	}
}

func TestBuild_HighBandsShadowedMoreThanLowBands(t *testing.T) {
	table := Build()
	contra := table[0][90][90]
	require.Less(t, contra[7], contra[0])
}

func TestAngularDistance_WrapsCorrectly(t *testing.T) {
	require.InDelta(t, 20.0, angularDistance(350, 10), 1e-9)
	require.InDelta(t, 180.0, angularDistance(0, 180), 1e-9)
	require.InDelta(t, 0.0, angularDistance(45, 45), 1e-9)
}
