// Package surveyordriver implements the per-CoBo status-polling task
// that GETs a Surveyor (data-router) endpoint's plain-text file/disk
// report and turns it into a message.SurveyorResponse. Grounded in
// _examples/original_source/src/envoy/surveyor_envoy.rs's line-indexed
// parsing, with the defensive bounds-checking spec.md §9 calls out as
// missing from the original.
package surveyordriver

import (
	"bufio"
	"strconv"
	"strings"

	"github.com/gwm17/attpc-envoy/internal/message"
	"github.com/gwm17/attpc-envoy/internal/module"
)

const blockSize = 512

// parseSurveyorBody decodes the Surveyor plain-text body per spec.md
// §4.2's fixed line layout:
//
//  1. integer state (0 = offline, 1 = online)
//  2. mount location
//  3. reserved / ignored
//  4. whitespace-separated disk report: total-512-byte-blocks at field
//     index 1, percent-used at field index 4
//  5. zero or more file listing lines; any line containing "graw"
//     contributes its last field (byte count) to an accumulator and a
//     file counter.
//
// lastBytes is the accumulator from the previous poll; data_rate is
// computed as (bytes - lastBytes) / 2.0. Every line access is
// defensively bounds-checked — the original indexes lines and fields
// unconditionally and panics on a short or malformed body.
func parseSurveyorBody(body string, lastBytes uint64) (message.SurveyorResponse, error) {
	lines := make([]string, 0, 8)
	scanner := bufio.NewScanner(strings.NewReader(body))
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return message.SurveyorResponse{}, err
	}

	if len(lines) < 1 {
		return message.DefaultSurveyorResponse(), nil
	}

	state, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return message.SurveyorResponse{}, err
	}
	if state == 0 {
		// Offline short-circuit: spec.md §4.2 requires a default
		// response without inspecting the rest of the body.
		return message.DefaultSurveyorResponse(), nil
	}

	resp := message.SurveyorResponse{StateCode: state}

	if len(lines) > 1 {
		resp.Location = strings.TrimSpace(lines[1])
	} else {
		resp.Location = "N/A"
	}

	if len(lines) > 3 {
		fields := strings.Fields(lines[3])
		if len(fields) > 1 {
			if blocks, err := strconv.ParseUint(fields[1], 10, 64); err == nil {
				resp.DiskSpace = blocks * blockSize
			}
		}
		if len(fields) > 4 {
			resp.PercentUsed = fields[4]
		} else {
			resp.PercentUsed = "N/A"
		}
	} else {
		resp.PercentUsed = "N/A"
	}

	var bytesUsed uint64
	fileCount := 0
	for _, line := range lines[minInt(4, len(lines)):] {
		if !strings.Contains(line, "graw") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		fileCount++
		if n, err := strconv.ParseUint(fields[len(fields)-1], 10, 64); err == nil {
			bytesUsed += n
		}
	}

	resp.Files = fileCount
	resp.BytesUsed = bytesUsed
	if bytesUsed >= lastBytes {
		resp.DataRate = float64(bytesUsed-lastBytes) / 2.0
	} else {
		// Accumulator reset (e.g. run boundary cleared the file
		// listing); report zero rather than a spurious negative one.
		resp.DataRate = 0
	}

	if fileCount > 0 {
		resp.DiskStatus = module.DiskFilled.String()
	} else {
		resp.DiskStatus = module.DiskEmpty.String()
	}

	return resp, nil
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
