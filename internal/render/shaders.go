package render

// MaxBones is the length of the D_mats uniform array in SkinVertexShader.
const MaxBones = 64

// Shader sources, NUL-terminated for gl.Strs.
var (
	MeshVertexShader = `
		#version 410
		in vec4 vertPosition;
		in vec4 aNorm;
		uniform mat4 mWorld;
		uniform mat4 mView;
		uniform mat4 mProj;
		uniform vec4 lightPosition;
		out vec4 lightDir;
		out vec4 normal;
		void main() {
			vec4 worldPosition = mWorld * vertPosition;
			gl_Position = mProj * mView * worldPosition;
			lightDir = normalize(lightPosition - worldPosition);
			normal = normalize(mWorld * aNorm);
		}
	` + "\x00"

	// Faces are tinted by the axis of their normal.
	MeshFragmentShader = `
		#version 410
		in vec4 lightDir;
		in vec4 normal;
		out vec4 frag_colour;
		void main() {
			vec3 base = abs(normal.xyz);
			float diffuse = clamp(dot(lightDir, normal), 0.0, 1.0);
			frag_colour = vec4(base * (0.2 + 0.8 * diffuse), 1.0);
		}
	` + "\x00"

	FloorVertexShader = `
		#version 410
		in vec4 vertPosition;
		in vec4 aNorm;
		uniform mat4 mWorld;
		uniform mat4 mView;
		uniform mat4 mProj;
		uniform vec4 lightPosition;
		out vec4 lightDir;
		out vec4 normal;
		out vec4 worldPos;
		void main() {
			worldPos = mWorld * vertPosition;
			gl_Position = mProj * mView * worldPos;
			lightDir = normalize(lightPosition - worldPos);
			normal = aNorm;
		}
	` + "\x00"

	FloorFragmentShader = `
		#version 410
		in vec4 lightDir;
		in vec4 normal;
		in vec4 worldPos;
		out vec4 frag_colour;
		void main() {
			float checker = mod(floor(worldPos.x / 5.0) + floor(worldPos.z / 5.0), 2.0);
			vec3 base = mix(vec3(0.1), vec3(0.9), checker);
			float diffuse = clamp(dot(lightDir, normal), 0.0, 1.0);
			frag_colour = vec4(base * (0.3 + 0.7 * diffuse), 1.0);
		}
	` + "\x00"

	LineVertexShader = `
		#version 410
		in vec3 vp;
		uniform mat4 mvp;
		void main() {
			gl_Position = mvp * vec4(vp, 1.0);
		}
	` + "\x00"

	LineFragmentShader = `
		#version 410
		uniform vec3 colour;
		out vec4 frag_colour;
		void main() {
			frag_colour = vec4(colour, 1.0);
		}
	` + "\x00"

	// Linear-blend skinning: each vertex blends up to four bones' D
	// matrices applied to its bone-local rest positions v0..v3. Pair with
	// LineFragmentShader.
	SkinVertexShader = `
		#version 410
		in vec4 skinIndices;
		in vec4 skinWeights;
		in vec4 v0;
		in vec4 v1;
		in vec4 v2;
		in vec4 v3;
		uniform mat4 D_mats[64];
		uniform mat4 mvp;
		void main() {
			vec4 local[4] = vec4[4](v0, v1, v2, v3);
			vec3 sum = vec3(0.0);
			for (int i = 0; i < 4; i++) {
				mat4 Di = D_mats[int(skinIndices[i])];
				sum += skinWeights[i] * (Di * local[i]).xyz;
			}
			gl_Position = mvp * vec4(sum, 1.0);
		}
	` + "\x00"
)
