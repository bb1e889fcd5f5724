package mask

import "gradient-relighter/internal/frame"

// RemoveSmallIslands clears 8-connected selected regions smaller than
// minRatio of the total selected area. The input is not modified.
func RemoveSmallIslands(m frame.Mask, minRatio float64) frame.Mask {
	w, h := m.Width, m.Height
	out := frame.Mask{Width: w, Height: h, Pix: make([]float32, len(m.Pix))}
	copy(out.Pix, m.Pix)

	total := 0
	for _, v := range m.Pix {
		if v != 0 {
			total++
		}
	}
	if total == 0 || minRatio <= 0 {
		return out
	}

	labels := make([]int, w*h)
	for i := range labels {
		labels[i] = -1
	}
	var sizes []int

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}

	queue := make([]int, 0, 1024)

	for start := range m.Pix {
		if m.Pix[start] == 0 || labels[start] >= 0 {
			continue
		}

		id := len(sizes)
		queue = append(queue[:0], start)
		labels[start] = id
		size := 0

		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			size++

			cx, cy := curr%w, curr/w
			for d := 0; d < 8; d++ {
				nx, ny := cx+dx[d], cy+dy[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				ni := ny*w + nx
				if m.Pix[ni] != 0 && labels[ni] < 0 {
					labels[ni] = id
					queue = append(queue, ni)
				}
			}
		}

		sizes = append(sizes, size)
	}

	if len(sizes) <= 1 {
		return out
	}

	minSize := int(float64(total) * minRatio)
	for i, l := range labels {
		if l >= 0 && sizes[l] < minSize {
			out.Pix[i] = 0
		}
	}
	return out
}
