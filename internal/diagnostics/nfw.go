package diagnostics

// DefaultScaleRadius is the NFW scale radius r_s used for reference curves.
const DefaultScaleRadius = 5.0

// NFW evaluates rho0 / ((r/rs)(1 + r/rs)^2) at each radius. Non-positive
// radii map to 0.
func NFW(radii []float64, rho0, rs float64) []float64 {
	out := make([]float64, len(radii))
	if rs <= 0 {
		return out
	}
	for i, r := range radii {
		if r <= 0 {
			continue
		}
		x := r / rs
		out[i] = rho0 / (x * (1 + x) * (1 + x))
	}
	return out
}

// NFWReference returns an NFW curve over the profile's radii, normalised so
// that rho0 = peak(profile)·rs.
func NFWReference(p Profile, rs float64) Profile {
	return Profile{
		Radius:  append([]float64(nil), p.Radius...),
		Density: NFW(p.Radius, p.Peak()*rs, rs),
	}
}
