package schedule

import (
	"time"

	"github.com/lumen-signage/lumen-player/api/types/v1alpha1"
)

// intrinsic derives the item's natural slot duration. Layouts are scanned
// for the furthest timeline end offset; playlists pace themselves
// internally, so their outer slot uses the default length. The result is
// clamped to [Floor, MaxSlot].
func (r *Rotator) intrinsic(item *Item) time.Duration {
	d := r.cfg.DefaultSlot
	if item.Media.Kind() == v1alpha1.MediaKindLayout {
		if scanned := layoutDuration(item.Media); scanned > 0 {
			d = scanned
		}
	}
	if d > r.cfg.MaxSlot {
		d = r.cfg.MaxSlot
	}
	if d < r.cfg.Floor {
		d = r.cfg.Floor
	}
	return d
}

// layoutDuration returns the maximum end offset of any timeline node in the
// layout, or 0 when no node carries timing.
func layoutDuration(m *v1alpha1.Media) time.Duration {
	var maxEnd int64
	for _, region := range m.Regions {
		for _, node := range region.Timeline {
			if end := node.StartMillis + node.DurationMillis; end > maxEnd {
				maxEnd = end
			}
		}
	}
	return time.Duration(maxEnd) * time.Millisecond
}
