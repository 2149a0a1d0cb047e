package solid

import (
	"fmt"

	"github.com/chazu/kerf/pkg/geom"
)

// FaceID identifies a face of a solid as reported by a pick query. Box
// faces are named by their outward local normal; cylinder faces are the two
// caps and the curved side.
type FaceID string

const (
	FaceNone FaceID = ""

	FacePosX FaceID = "pos-x"
	FaceNegX FaceID = "neg-x"
	FacePosY FaceID = "pos-y"
	FaceNegY FaceID = "neg-y"
	FacePosZ FaceID = "pos-z"
	FaceNegZ FaceID = "neg-z"

	FaceCapTop    FaceID = "cap-top"    // cylinder cap on the +thickness side
	FaceCapBottom FaceID = "cap-bottom" // cylinder cap on the -thickness side
	FaceSide      FaceID = "side"       // cylinder curved surface
)

// boxFaces maps each box face to its canonical local outward normal.
var boxFaces = map[FaceID]geom.Vec{
	FacePosX: {X: 1},
	FaceNegX: {X: -1},
	FacePosY: {Y: 1},
	FaceNegY: {Y: -1},
	FacePosZ: {Z: 1},
	FaceNegZ: {Z: -1},
}

// ValidFaceIDs is the set of face ids any pick may report.
var ValidFaceIDs = map[FaceID]bool{
	FacePosX: true, FaceNegX: true,
	FacePosY: true, FaceNegY: true,
	FacePosZ: true, FaceNegZ: true,
	FaceCapTop: true, FaceCapBottom: true, FaceSide: true,
}

// BoxFaceNormal returns the canonical local normal of a box face.
func BoxFaceNormal(f FaceID) (geom.Vec, bool) {
	n, ok := boxFaces[f]
	return n, ok
}

// BoxFace returns the box face whose outward local normal is sign·axis.
func BoxFace(axis geom.Axis, sign float64) FaceID {
	pos := sign >= 0
	switch axis {
	case geom.AxisX:
		if pos {
			return FacePosX
		}
		return FaceNegX
	case geom.AxisY:
		if pos {
			return FacePosY
		}
		return FaceNegY
	default:
		if pos {
			return FacePosZ
		}
		return FaceNegZ
	}
}

// ParseFaceID validates a face name.
func ParseFaceID(name string) (FaceID, error) {
	f := FaceID(name)
	if !ValidFaceIDs[f] {
		return FaceNone, fmt.Errorf("invalid face %q, expected pos-x/neg-x/pos-y/neg-y/pos-z/neg-z/cap-top/cap-bottom/side", name)
	}
	return f, nil
}
